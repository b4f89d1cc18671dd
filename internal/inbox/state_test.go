package inbox

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msb-booking/internal/domain"
)

type fakeStore struct {
	read    []uuid.UUID
	many    [][]uuid.UUID
	all     int
	deleted []uuid.UUID
	err     error
}

func (f *fakeStore) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.read = append(f.read, id)
	return nil
}

func (f *fakeStore) MarkManyAsRead(ctx context.Context, ids []uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.many = append(f.many, ids)
	return nil
}

func (f *fakeStore) MarkAllAsRead(ctx context.Context) error {
	if f.err != nil {
		return f.err
	}
	f.all++
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func items(readFlags ...bool) []domain.Notification {
	out := make([]domain.Notification, len(readFlags))
	for i, read := range readFlags {
		out[i] = domain.Notification{ID: uuid.New(), Title: "n", IsRead: read}
	}
	return out
}

type recorder struct {
	counts []int64
}

func (r *recorder) listen(n int64) { r.counts = append(r.counts, n) }

func TestNewComputesUnread(t *testing.T) {
	s := New(&fakeStore{}, items(false, true, false))
	assert.EqualValues(t, 2, s.UnreadCount())
}

func TestMarkReadIsIdempotent(t *testing.T) {
	list := items(false, false)
	store := &fakeStore{}
	s := New(store, list)
	rec := &recorder{}
	s.OnUnreadChange(rec.listen)

	ctx := context.Background()
	require.NoError(t, s.MarkRead(ctx, list[0].ID))
	require.NoError(t, s.MarkRead(ctx, list[0].ID))

	assert.EqualValues(t, 1, s.UnreadCount())
	assert.Equal(t, []int64{1, 1}, rec.counts)
	assert.True(t, s.Items()[0].IsRead)
}

func TestMarkReadStoreFailureLeavesStateAlone(t *testing.T) {
	list := items(false)
	s := New(&fakeStore{err: errors.New("offline")}, list)
	rec := &recorder{}
	s.OnUnreadChange(rec.listen)

	assert.Error(t, s.MarkRead(context.Background(), list[0].ID))
	assert.EqualValues(t, 1, s.UnreadCount())
	assert.Empty(t, rec.counts)
}

func TestMarkAllRead(t *testing.T) {
	store := &fakeStore{}
	s := New(store, items(false, false, true))
	rec := &recorder{}
	s.OnUnreadChange(rec.listen)

	require.NoError(t, s.MarkAllRead(context.Background()))

	assert.EqualValues(t, 0, s.UnreadCount())
	assert.Equal(t, 1, store.all)
	assert.Equal(t, []int64{0}, rec.counts)
}

func TestToggleSelection(t *testing.T) {
	list := items(false, false)
	s := New(&fakeStore{}, list)

	s.ToggleSelection(list[0].ID)
	assert.True(t, s.SelectionMode())
	assert.Equal(t, []uuid.UUID{list[0].ID}, s.Selected())

	s.ToggleSelection(list[0].ID)
	assert.Empty(t, s.Selected())
}

func TestToggleSelectAll(t *testing.T) {
	list := items(false, false, false)
	s := New(&fakeStore{}, list)

	s.ToggleSelection(list[1].ID)
	s.ToggleSelectAll()
	assert.Len(t, s.Selected(), 3)

	s.ToggleSelectAll()
	assert.Empty(t, s.Selected())
}

func TestMarkSelectedReadClearsSelection(t *testing.T) {
	list := items(false, false, false)
	store := &fakeStore{}
	s := New(store, list)
	rec := &recorder{}
	s.OnUnreadChange(rec.listen)

	s.ToggleSelection(list[0].ID)
	s.ToggleSelection(list[2].ID)
	require.NoError(t, s.MarkSelectedRead(context.Background()))

	assert.EqualValues(t, 1, s.UnreadCount())
	assert.Empty(t, s.Selected())
	assert.False(t, s.SelectionMode())
	require.Len(t, store.many, 1)
	assert.ElementsMatch(t, []uuid.UUID{list[0].ID, list[2].ID}, store.many[0])
	assert.Equal(t, []int64{1}, rec.counts)
}

func TestDeleteRecomputesUnread(t *testing.T) {
	list := items(false, true, false)
	store := &fakeStore{}
	s := New(store, list)
	rec := &recorder{}
	s.OnUnreadChange(rec.listen)

	s.ToggleSelection(list[0].ID)
	require.NoError(t, s.Delete(context.Background(), list[0].ID))

	assert.Len(t, s.Items(), 2)
	assert.EqualValues(t, 1, s.UnreadCount())
	assert.Empty(t, s.Selected())
	assert.Equal(t, []uuid.UUID{list[0].ID}, store.deleted)
	assert.Equal(t, []int64{1}, rec.counts)
}

func TestReadFlagNeverResets(t *testing.T) {
	list := items(true)
	s := New(&fakeStore{}, list)

	require.NoError(t, s.MarkRead(context.Background(), list[0].ID))
	require.NoError(t, s.MarkAllRead(context.Background()))

	assert.True(t, s.Items()[0].IsRead)
	assert.EqualValues(t, 0, s.UnreadCount())
}
