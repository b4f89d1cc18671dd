package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"msb-booking/internal/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, notif *domain.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error)
	ListAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkManyAsRead(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notif *domain.Notification) error {
	if notif.Source == "" {
		notif.Source = domain.NotificationSourceStaff
	}

	query := `
		INSERT INTO notifications (id, user_id, title, description, receipt_code, source)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING is_read, created_at`

	return r.db.QueryRowxContext(ctx, query,
		notif.ID, notif.UserID, notif.Title, notif.Description, notif.ReceiptCode, notif.Source,
	).Scan(&notif.IsRead, &notif.CreatedAt)
}

func (r *notificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	var notif domain.Notification
	query := `SELECT * FROM notifications WHERE id = $1`

	err := r.db.GetContext(ctx, &notif, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &notif, nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	params.Normalize()

	filter := `WHERE user_id = $1`
	if unreadOnly {
		filter += ` AND is_read = false`
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM notifications `+filter, userID); err != nil {
		return nil, 0, err
	}

	notifications := []domain.Notification{}
	query := `
		SELECT * FROM notifications ` + filter + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	err := r.db.SelectContext(ctx, &notifications, query, userID, params.Limit(), params.Offset())
	return notifications, total, err
}

func (r *notificationRepository) ListAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	notifications := []domain.Notification{}
	query := `SELECT * FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &notifications, query, userID)
	return notifications, err
}

// MarkAsRead never flips a read item back to unread, so repeating it is harmless.
func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	query := `UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *notificationRepository) MarkManyAsRead(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	query := `UPDATE notifications SET is_read = true WHERE user_id = $1 AND id = ANY($2::uuid[]) AND is_read = false`
	_, err := r.db.ExecContext(ctx, query, userID, pq.Array(raw))
	return err
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false`
	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}

func (r *notificationRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
