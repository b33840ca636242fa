// Package notify is the bell as one unit: the store, the poller keeping it
// fresh, read-state sync and routing of a selected notification.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/sqlainsaad5/eventify-bell/internal/credential"
	"github.com/sqlainsaad5/eventify-bell/internal/model"
	"github.com/sqlainsaad5/eventify-bell/internal/remote"
	"github.com/sqlainsaad5/eventify-bell/internal/routing"
	"github.com/sqlainsaad5/eventify-bell/internal/store"
	"github.com/sqlainsaad5/eventify-bell/internal/sync"
)

// ErrNotFound is returned when a selected id is not in the store.
var ErrNotFound = errors.New("notification not found")

// Navigator delivers a destination to the viewer and returns what was
// opened.
type Navigator interface {
	Navigate(d routing.Destination) (string, error)
}

// Selection is the outcome of selecting one notification.
type Selection struct {
	Notification model.Notification

	// AckErr is set when the read acknowledgement was not confirmed. Routing
	// still happens.
	AckErr error

	Destination routing.Destination
	Routed      bool
	URL         string
}

// Service owns one bell instance.
type Service struct {
	store   *store.NotificationStore
	poller  *sync.Poller
	sync    *sync.Synchronizer
	session credential.Session
	nav     Navigator
	logger  zerolog.Logger
}

// NewService wires a bell. journal and nav may be nil.
func NewService(
	client remote.Client,
	session credential.Session,
	journal store.Journal,
	nav Navigator,
	logger zerolog.Logger,
) *Service {
	st := store.NewNotificationStore()
	return &Service{
		store:   st,
		poller:  sync.NewPoller(client, session, st, logger),
		sync:    sync.NewSynchronizer(client, session, st, journal, logger),
		session: session,
		nav:     nav,
		logger:  logger.With().Str("component", "bell").Logger(),
	}
}

// Start begins polling every interval.
func (s *Service) Start(interval time.Duration) error {
	return s.poller.Start(interval)
}

// Stop ends polling. Nothing is written to the store afterwards by the poller.
func (s *Service) Stop() {
	s.poller.Stop()
}

// Refresh polls once without waiting for the next tick.
func (s *Service) Refresh() {
	s.poller.Refresh()
}

// Results exposes the poller's results.
func (s *Service) Results() <-chan sync.PollResult {
	return s.poller.Results()
}

// List returns a snapshot of the notifications in server order.
func (s *Service) List() []model.Notification {
	return s.store.List()
}

// UnreadCount returns the number of unread notifications.
func (s *Service) UnreadCount() int {
	return s.store.UnreadCount()
}

// Select acknowledges the notification with id and routes it for the
// current role. A failed acknowledgement is reported in the Selection and
// does not prevent routing.
func (s *Service) Select(ctx context.Context, id model.ID) (Selection, error) {
	n, ok := s.store.Get(id)
	if !ok {
		return Selection{}, ErrNotFound
	}

	sel := Selection{Notification: n}
	sel.AckErr = s.sync.Acknowledge(ctx, n)
	if current, ok := s.store.Get(id); ok {
		sel.Notification = current
	}

	role, err := s.session.Role()
	if err != nil {
		s.logger.Warn().Err(err).Msg("reading role; routing as unknown")
		role = ""
	}

	sel.Destination, sel.Routed = routing.ResolveNotification(n, role)
	if !sel.Routed {
		s.logger.Debug().Str("notification_id", id.String()).Str("role", string(role)).Msg("no destination")
		return sel, nil
	}

	if s.nav != nil {
		u, err := s.nav.Navigate(sel.Destination)
		if err != nil {
			return sel, err
		}
		sel.URL = u
	}
	return sel, nil
}

// ClearAll marks every notification read once the server confirms.
func (s *Service) ClearAll(ctx context.Context) error {
	return s.sync.ClearAll(ctx)
}
