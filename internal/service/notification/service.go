package notification

import (
	"context"

	"github.com/google/uuid"

	"msb-booking/internal/domain"
	"msb-booking/internal/identity"
	"msb-booking/internal/inbox"
	"msb-booking/internal/repository"
)

// BadgePublisher pushes the unread count to the customer's open devices.
type BadgePublisher interface {
	PublishUnreadCount(userID uuid.UUID, count int64)
}

// Service is the current customer's inbox. Every method is scoped by the
// identity on ctx. It also satisfies inbox.Store.
type Service interface {
	List(ctx context.Context, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	GetUnreadCount(ctx context.Context) (int64, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkManyAsRead(ctx context.Context, ids []uuid.UUID) error
	MarkAllAsRead(ctx context.Context) error
	Delete(ctx context.Context, id uuid.UUID) error
	Inbox(ctx context.Context) (*inbox.State, error)
}

type service struct {
	notifRepo repository.NotificationRepository
	badges    BadgePublisher
}

func NewService(notifRepo repository.NotificationRepository, badges BadgePublisher) Service {
	return &service{
		notifRepo: notifRepo,
		badges:    badges,
	}
}

func (s *service) List(ctx context.Context, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	user, err := identity.Require(ctx)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}

	params.Normalize()
	notifications, total, err := s.notifRepo.ListByUser(ctx, user.ID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}

	return domain.NewPaginatedResponse(notifications, params, total), nil
}

func (s *service) GetUnreadCount(ctx context.Context) (int64, error) {
	user, err := identity.Require(ctx)
	if err != nil {
		return 0, err
	}
	return s.notifRepo.CountUnread(ctx, user.ID)
}

func (s *service) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	user, err := identity.Require(ctx)
	if err != nil {
		return err
	}
	return s.notifRepo.MarkAsRead(ctx, id, user.ID)
}

func (s *service) MarkManyAsRead(ctx context.Context, ids []uuid.UUID) error {
	user, err := identity.Require(ctx)
	if err != nil {
		return err
	}
	return s.notifRepo.MarkManyAsRead(ctx, ids, user.ID)
}

func (s *service) MarkAllAsRead(ctx context.Context) error {
	user, err := identity.Require(ctx)
	if err != nil {
		return err
	}
	return s.notifRepo.MarkAllAsRead(ctx, user.ID)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := identity.Require(ctx)
	if err != nil {
		return err
	}
	return s.notifRepo.Delete(ctx, id, user.ID)
}

// Inbox loads the customer's full list into an inbox.State whose unread
// count is mirrored to their devices.
func (s *service) Inbox(ctx context.Context) (*inbox.State, error) {
	user, err := identity.Require(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.notifRepo.ListAllByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	state := inbox.New(s, items)
	if s.badges != nil {
		state.OnUnreadChange(func(count int64) {
			s.badges.PublishUnreadCount(user.ID, count)
		})
	}
	return state, nil
}
