// Package inbox is the read/selection bookkeeping behind a customer's
// notification list. Durable changes go through Store first; the cached
// list only changes once the store accepted them.
package inbox

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"msb-booking/internal/domain"
)

type Store interface {
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkManyAsRead(ctx context.Context, ids []uuid.UUID) error
	MarkAllAsRead(ctx context.Context) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UnreadListener receives the recomputed unread count after every change
// to read state or membership.
type UnreadListener func(count int64)

type State struct {
	mu            sync.Mutex
	store         Store
	items         []domain.Notification
	selected      map[uuid.UUID]struct{}
	selectionMode bool
	unread        int64
	listener      UnreadListener
}

// New takes items most recent first, as the store lists them.
func New(store Store, items []domain.Notification) *State {
	s := &State{
		store:    store,
		items:    append([]domain.Notification(nil), items...),
		selected: make(map[uuid.UUID]struct{}),
	}
	s.unread = s.countUnread()
	return s
}

func (s *State) OnUnreadChange(l UnreadListener) {
	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()
}

func (s *State) Items() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Notification(nil), s.items...)
}

func (s *State) UnreadCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread
}

func (s *State) SelectionMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectionMode
}

func (s *State) Selected() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]uuid.UUID, 0, len(s.selected))
	for _, n := range s.items {
		if _, ok := s.selected[n.ID]; ok {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// MarkRead is idempotent: an item already read stays read.
func (s *State) MarkRead(ctx context.Context, id uuid.UUID) error {
	if err := s.store.MarkAsRead(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].IsRead = true
		}
	}
	s.changed()
	return nil
}

func (s *State) MarkAllRead(ctx context.Context) error {
	if err := s.store.MarkAllAsRead(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.items {
		s.items[i].IsRead = true
	}
	s.changed()
	return nil
}

// ToggleSelection flips id in or out of the selection and enters selection mode.
func (s *State) ToggleSelection(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
	} else {
		s.selected[id] = struct{}{}
	}
	s.selectionMode = true
}

// ToggleSelectAll clears the selection when everything is selected and
// selects everything otherwise.
func (s *State) ToggleSelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.selected) == len(s.items) {
		s.selected = make(map[uuid.UUID]struct{})
		return
	}

	s.selected = make(map[uuid.UUID]struct{}, len(s.items))
	for _, n := range s.items {
		s.selected[n.ID] = struct{}{}
	}
	s.selectionMode = true
}

func (s *State) ExitSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[uuid.UUID]struct{})
	s.selectionMode = false
}

// MarkSelectedRead marks every selected item read, then clears the
// selection and leaves selection mode.
func (s *State) MarkSelectedRead(ctx context.Context) error {
	ids := s.Selected()
	if len(ids) > 0 {
		if err := s.store.MarkManyAsRead(ctx, ids); err != nil {
			return err
		}
	}

	s.mu.Lock()
	for i := range s.items {
		if _, ok := s.selected[s.items[i].ID]; ok {
			s.items[i].IsRead = true
		}
	}
	s.selected = make(map[uuid.UUID]struct{})
	s.selectionMode = false
	s.changed()
	return nil
}

// Delete removes id from the store and the cached list.
func (s *State) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.items[:0]
	for _, n := range s.items {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	s.items = kept
	delete(s.selected, id)
	s.changed()
	return nil
}

// changed recomputes the unread count and notifies the listener. It must be
// called with mu held and releases it.
func (s *State) changed() {
	s.unread = s.countUnread()
	count, l := s.unread, s.listener
	s.mu.Unlock()

	if l != nil {
		l(count)
	}
}

func (s *State) countUnread() int64 {
	var n int64
	for _, item := range s.items {
		if !item.IsRead {
			n++
		}
	}
	return n
}
