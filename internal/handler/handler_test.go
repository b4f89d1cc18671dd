package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"msb-booking/internal/domain"
	"msb-booking/internal/handler"
	"msb-booking/internal/identity"
	"msb-booking/internal/middleware"
	"msb-booking/internal/mocks"
	"msb-booking/internal/service/appointment"
	"msb-booking/internal/service/booking"
	"msb-booking/internal/service/delivery"
	"msb-booking/internal/service/notification"
)

type fakeBooking struct {
	result *domain.BookingResult
	err    error
}

func (f *fakeBooking) Book(ctx context.Context, input domain.CreateAppointmentInput) (*domain.BookingResult, error) {
	if _, err := identity.Require(ctx); err != nil {
		return nil, err
	}
	return f.result, f.err
}

type fakeAppointments struct {
	appointment.Service
	cancelErr error
	list      []domain.Appointment
}

func (f *fakeAppointments) Cancel(ctx context.Context, id uuid.UUID) ([]domain.Appointment, error) {
	return f.list, f.cancelErr
}

var customerID = uuid.New()

func withIdentity(c *fiber.Ctx) error {
	c.SetUserContext(identity.WithUser(c.UserContext(), identity.User{ID: customerID, Role: "customer"}))
	return c.Next()
}

func newApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(zap.NewNop())})
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func TestBook_Created(t *testing.T) {
	appt := &domain.Appointment{ID: uuid.New(), ReceiptCode: "MSB-0007"}
	h := handler.NewAppointmentHandler(&fakeBooking{result: &domain.BookingResult{Appointment: appt, PushError: "no token"}}, nil)
	app := newApp()
	app.Post("/appointments", withIdentity, h.Book)

	resp, body := doJSON(t, app, "POST", "/appointments", map[string]any{
		"barber_id": uuid.New(), "service_id": uuid.New(), "scheduled_date": "2026-10-20", "scheduled_time": "10:00",
	})

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var result domain.BookingResult
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, "MSB-0007", result.Appointment.ReceiptCode)
	assert.False(t, result.PushSent)
	assert.Equal(t, "no token", result.PushError)
}

func TestBook_Unauthenticated(t *testing.T) {
	h := handler.NewAppointmentHandler(&fakeBooking{}, nil)
	app := newApp()
	app.Post("/appointments", h.Book)

	resp, _ := doJSON(t, app, "POST", "/appointments", map[string]any{})

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestBook_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"missing selection", domain.ErrMissingSelection, fiber.StatusBadRequest},
		{"receipt race", fmt.Errorf("%w: %w", booking.ErrStoreRejected, &pq.Error{Code: "23505"}), fiber.StatusConflict},
		{"store down", fmt.Errorf("%w: %w", booking.ErrStoreRejected, assert.AnError), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := handler.NewAppointmentHandler(&fakeBooking{err: tc.err}, nil)
			app := newApp()
			app.Post("/appointments", withIdentity, h.Book)

			resp, _ := doJSON(t, app, "POST", "/appointments", map[string]any{})
			assert.Equal(t, tc.code, resp.StatusCode)
		})
	}
}

func TestCancel_BlockedIsConflict(t *testing.T) {
	h := handler.NewAppointmentHandler(nil, &fakeAppointments{cancelErr: domain.ErrCancellationBlocked})
	app := newApp()
	app.Post("/appointments/:id/cancel", withIdentity, h.Cancel)

	resp, _ := doJSON(t, app, "POST", "/appointments/"+uuid.NewString()+"/cancel", nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/appointments/not-a-uuid/cancel", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

type recordingBadges struct{ counts []int64 }

func (r *recordingBadges) PublishUnreadCount(userID uuid.UUID, count int64) {
	r.counts = append(r.counts, count)
}

func TestMarkSelectedAsRead_PublishesBadge(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	repo := new(mocks.NotificationRepository)
	repo.On("ListAllByUser", mock.Anything, customerID).Return([]domain.Notification{
		{ID: a}, {ID: b}, {ID: c},
	}, nil).Once()
	repo.On("MarkManyAsRead", mock.Anything, mock.MatchedBy(func(ids []uuid.UUID) bool {
		return len(ids) == 2 && ((ids[0] == a && ids[1] == b) || (ids[0] == b && ids[1] == a))
	}), customerID).Return(nil).Once()

	badges := &recordingBadges{}
	h := handler.NewNotificationHandler(notification.NewService(repo, badges))
	app := newApp()
	app.Post("/notifications/read-selected", withIdentity, h.MarkSelectedAsRead)

	resp, body := doJSON(t, app, "POST", "/notifications/read-selected", domain.MarkSelectedInput{IDs: []uuid.UUID{a, b, a}})

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var count domain.UnreadCount
	require.NoError(t, json.Unmarshal(body, &count))
	assert.Equal(t, int64(1), count.Count)
	assert.Equal(t, []int64{1}, badges.counts)
	repo.AssertExpectations(t)
}

func TestMarkAsRead_ReturnsUnreadCount(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	repo := new(mocks.NotificationRepository)
	repo.On("ListAllByUser", mock.Anything, customerID).Return([]domain.Notification{
		{ID: a}, {ID: b, IsRead: true},
	}, nil).Once()
	repo.On("MarkAsRead", mock.Anything, a, customerID).Return(nil).Once()

	badges := &recordingBadges{}
	h := handler.NewNotificationHandler(notification.NewService(repo, badges))
	app := newApp()
	app.Patch("/notifications/:id/read", withIdentity, h.MarkAsRead)

	resp, body := doJSON(t, app, "PATCH", "/notifications/"+a.String()+"/read", nil)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var count domain.UnreadCount
	require.NoError(t, json.Unmarshal(body, &count))
	assert.Equal(t, int64(0), count.Count)
	assert.Equal(t, []int64{0}, badges.counts)
	repo.AssertExpectations(t)
}

func TestDeviceStart_PassesToken(t *testing.T) {
	svc := new(mocks.DeliveryService)
	svc.On("Start", mock.Anything, "ExponentPushToken[abc]").Return().Once()
	h := handler.NewDeviceHandler(svc)
	app := newApp()
	app.Post("/devices/start", withIdentity, h.Start)

	resp, _ := doJSON(t, app, "POST", "/devices/start", map[string]string{"push_token": "ExponentPushToken[abc]"})

	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	svc.AssertExpectations(t)
}

func TestDeviceTestPush_BothChannelsFailed(t *testing.T) {
	svc := new(mocks.DeliveryService)
	svc.On("SendPushNotification", mock.Anything, "Hi", "There", mock.Anything).
		Return(nil, delivery.ErrBothChannelsFailed).Once()
	h := handler.NewDeviceHandler(svc)
	app := newApp()
	app.Post("/devices/test", withIdentity, h.TestPush)

	resp, _ := doJSON(t, app, "POST", "/devices/test", map[string]string{"title": "Hi", "body": "There"})

	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}
