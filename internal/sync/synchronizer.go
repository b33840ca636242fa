package sync

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sqlainsaad5/eventify-bell/internal/credential"
	"github.com/sqlainsaad5/eventify-bell/internal/metrics"
	"github.com/sqlainsaad5/eventify-bell/internal/model"
	"github.com/sqlainsaad5/eventify-bell/internal/remote"
	"github.com/sqlainsaad5/eventify-bell/internal/store"
)

// requestTimeout bounds a single read-state request.
const requestTimeout = DefaultInterval

// Synchronizer sends read-state changes to the API and commits them to the
// store only after the API confirms them.
type Synchronizer struct {
	client  remote.Client
	session credential.Session
	store   *store.NotificationStore
	journal store.Journal
	logger  zerolog.Logger
}

// NewSynchronizer creates a Synchronizer. journal may be nil.
func NewSynchronizer(
	client remote.Client,
	session credential.Session,
	st *store.NotificationStore,
	journal store.Journal,
	logger zerolog.Logger,
) *Synchronizer {
	return &Synchronizer{
		client:  client,
		session: session,
		store:   st,
		journal: journal,
		logger:  logger.With().Str("component", "synchronizer").Logger(),
	}
}

// Acknowledge marks n read on the server and then locally. A notification
// that is already read (in n or in the store) needs no request and returns
// nil. On failure the local state is unchanged and the error is returned.
func (s *Synchronizer) Acknowledge(ctx context.Context, n model.Notification) error {
	if n.IsRead {
		return nil
	}
	if current, ok := s.store.Get(n.ID); ok && current.IsRead {
		return nil
	}

	token, err := s.session.Token()
	if err != nil {
		return err
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	err = s.client.MarkRead(reqCtx, token, n.ID)
	s.record(ctx, model.OpMarkRead, n.ID, err)
	if err != nil {
		s.logger.Warn().Err(err).Str("notification_id", n.ID.String()).Msg("mark read not confirmed")
		return err
	}

	s.store.MarkRead(n.ID)
	metrics.Unread.Set(float64(s.store.UnreadCount()))
	return nil
}

// ClearAll marks every notification read on the server and then locally.
// On failure the store is unchanged and the error is returned.
func (s *Synchronizer) ClearAll(ctx context.Context) error {
	token, err := s.session.Token()
	if err != nil {
		return err
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	err = s.client.ClearAll(reqCtx, token)
	s.record(ctx, model.OpClearAll, "", err)
	if err != nil {
		s.logger.Warn().Err(err).Msg("clear all not confirmed")
		return err
	}

	flipped := s.store.MarkAllRead()
	metrics.Unread.Set(0)
	s.logger.Info().Int("flipped", flipped).Msg("notifications cleared")
	return nil
}

// record counts the request and appends it to the journal. Journal failures
// are logged and otherwise ignored.
func (s *Synchronizer) record(ctx context.Context, op model.ReadStateOp, id model.ID, err error) {
	result := "ok"
	entry := model.ReadStateEntry{
		Op:             op,
		NotificationID: id,
		Confirmed:      err == nil,
		At:             time.Now(),
	}
	if err != nil {
		result = "error"
		entry.Error = err.Error()
	}
	metrics.ReadStateRequests.WithLabelValues(string(op), result).Inc()

	if s.journal == nil {
		return
	}
	// The caller's context may already be cancelled by a failure.
	if jerr := s.journal.RecordReadState(context.WithoutCancel(ctx), entry); jerr != nil {
		s.logger.Error().Err(jerr).Str("op", string(op)).Msg("writing read-state journal")
	}
}
