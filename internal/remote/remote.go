package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/sqlainsaad5/eventify-bell/internal/model"
)

// Endpoint paths of the notification API.
const (
	notificationsPath = "/api/payments/notifications"
	markReadPath      = "/api/payments/notifications/{id}/read"
	clearAllPath      = "/api/payments/notifications/clear-all"
)

// AuthError indicates that the API rejected the bearer token.
// It is returned when a 401 response is received.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error: %s", e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// StatusError is returned for any other non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d on %s %s: %s", e.StatusCode, e.Method, e.Path, e.Body)
}

// Client is the notification API as seen by the bell. The token is passed on
// every call; clients never hold on to it.
type Client interface {
	// FetchNotifications returns the viewer's notifications in server order.
	FetchNotifications(ctx context.Context, token string) ([]model.Notification, error)

	// MarkRead acknowledges one notification. A nil error means the server
	// answered 2xx.
	MarkRead(ctx context.Context, token string, id model.ID) error

	// ClearAll marks every notification read. A nil error means the server
	// answered 2xx.
	ClearAll(ctx context.Context, token string) error
}
