package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"github.com/sqlainsaad5/eventify-bell/internal/model"
)

// defaultTimeout bounds a request when the caller's context has no deadline.
const defaultTimeout = 30 * time.Second

// listResponse is the body of GET /api/payments/notifications. Records are
// decoded one by one so a single bad entry cannot fail the poll.
type listResponse struct {
	Notifications []json.RawMessage `json:"notifications"`
}

// HTTPClient talks to the Eventify notification API over HTTP with Bearer
// token authentication.
type HTTPClient struct {
	baseURL string
	rc      *resty.Client
	logger  zerolog.Logger
}

// NewHTTPClient creates a client for the API rooted at baseURL
// (e.g. http://localhost:5000).
func NewHTTPClient(baseURL string, logger zerolog.Logger) *HTTPClient {
	baseURL = strings.TrimRight(baseURL, "/")

	logger = logger.With().Str("component", "remote").Logger()

	// resty logs to stderr by default, which would paint over the TUI.
	rc := resty.New().
		SetLogger(restyLogger{logger: logger}).
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json")

	return &HTTPClient{
		baseURL: baseURL,
		rc:      rc,
		logger:  logger,
	}
}

// Close releases idle connections.
func (c *HTTPClient) Close() error {
	return c.rc.Close()
}

// FetchNotifications implements Client. Entries without an id cannot be
// acknowledged and are dropped.
func (c *HTTPClient) FetchNotifications(
	ctx context.Context,
	token string,
) ([]model.Notification, error) {
	var body listResponse
	res, err := c.rc.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&body).
		Get(notificationsPath)
	if err != nil {
		return nil, fmt.Errorf("executing request GET %s: %w", notificationsPath, err)
	}
	if err := checkStatus(res, http.MethodGet, notificationsPath, c.baseURL); err != nil {
		return nil, err
	}

	out := make([]model.Notification, 0, len(body.Notifications))
	for i, raw := range body.Notifications {
		var n model.Notification
		if err := json.Unmarshal(raw, &n); err != nil {
			c.logger.Warn().Err(err).Int("index", i).Msg("dropping undecodable notification")
			continue
		}
		if n.ID.IsZero() {
			c.logger.Warn().Str("title", n.Title).Msg("dropping notification without id")
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// MarkRead implements Client.
func (c *HTTPClient) MarkRead(ctx context.Context, token string, id model.ID) error {
	res, err := c.rc.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetPathParam("id", id.String()).
		Put(markReadPath)
	if err != nil {
		return fmt.Errorf("executing request PUT %s: %w", markReadPath, err)
	}
	return checkStatus(res, http.MethodPut, markReadPath, c.baseURL)
}

// ClearAll implements Client.
func (c *HTTPClient) ClearAll(ctx context.Context, token string) error {
	res, err := c.rc.R().
		SetContext(ctx).
		SetAuthToken(token).
		Put(clearAllPath)
	if err != nil {
		return fmt.Errorf("executing request PUT %s: %w", clearAllPath, err)
	}
	return checkStatus(res, http.MethodPut, clearAllPath, c.baseURL)
}

// checkStatus maps a non-2xx response to AuthError or StatusError.
func checkStatus(res *resty.Response, method, path, baseURL string) error {
	if res.IsSuccess() {
		return nil
	}
	if res.StatusCode() == http.StatusUnauthorized {
		return &AuthError{
			Message: fmt.Sprintf("token rejected by %s; sign in again", baseURL),
		}
	}
	return &StatusError{
		Method:     method,
		Path:       path,
		StatusCode: res.StatusCode(),
		Body:       strings.TrimSpace(res.String()),
	}
}

// restyLogger sends resty's own diagnostics to zerolog.
type restyLogger struct {
	logger zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.logger.Error().Str("source", "resty").Msgf(format, v...)
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.logger.Warn().Str("source", "resty").Msgf(format, v...)
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug().Str("source", "resty").Msgf(format, v...)
}
