package sync

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"

	"github.com/sqlainsaad5/eventify-bell/internal/credential"
	"github.com/sqlainsaad5/eventify-bell/internal/metrics"
	"github.com/sqlainsaad5/eventify-bell/internal/model"
	"github.com/sqlainsaad5/eventify-bell/internal/remote"
	"github.com/sqlainsaad5/eventify-bell/internal/store"
)

// DefaultInterval matches the web bell's refresh cadence.
const DefaultInterval = 15 * time.Second

// PollResult describes one completed poll. It is sent on the Results channel.
type PollResult struct {
	// Count and Unread describe the store after the poll.
	Count  int
	Unread int

	// Disabled is set when no credential was available; the store was
	// emptied and no request was made.
	Disabled bool

	// Error is set when the fetch failed; the store was left untouched.
	Error error

	// AuthError is set when the API rejected the token.
	AuthError bool

	At time.Time
}

// Poller keeps a NotificationStore approximately fresh. At most one fetch is
// in flight at any time, and nothing is written to the store after Stop.
type Poller struct {
	client   remote.Client
	session  credential.Session
	store    *store.NotificationStore
	logger   zerolog.Logger
	resultCh chan PollResult

	inFlight  atomic.Bool
	refreshes gosync.WaitGroup

	mu        gosync.Mutex
	running   bool
	gen       uint64
	ctx       context.Context
	cancel    context.CancelFunc
	timeout   time.Duration
	scheduler gocron.Scheduler
}

// NewPoller creates a stopped Poller.
func NewPoller(
	client remote.Client,
	session credential.Session,
	st *store.NotificationStore,
	logger zerolog.Logger,
) *Poller {
	return &Poller{
		client:   client,
		session:  session,
		store:    st,
		logger:   logger.With().Str("component", "poller").Logger(),
		resultCh: make(chan PollResult, 16),
	}
}

// Start fetches immediately and then every interval. A non-positive interval
// uses DefaultInterval. Starting a running poller is a no-op.
func (p *Poller) Start(interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	gen := p.gen + 1

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			p.poll(ctx, gen, interval)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		cancel()
		_ = s.Shutdown()
		return fmt.Errorf("scheduling poll job: %w", err)
	}

	p.gen = gen
	p.ctx = ctx
	p.cancel = cancel
	p.timeout = interval
	p.scheduler = s
	p.running = true

	s.Start()
	p.logger.Info().Dur("interval", interval).Msg("poller started")
	return nil
}

// Stop cancels the schedule and any in-flight fetch and waits for running
// ticks to return. Results that arrive afterwards are discarded. Stop is
// safe to call at any time.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.cancel()
	s := p.scheduler
	p.scheduler = nil
	p.mu.Unlock()

	if err := s.Shutdown(); err != nil {
		p.logger.Warn().Err(err).Msg("scheduler shutdown")
	}
	p.refreshes.Wait()
	p.logger.Info().Msg("poller stopped")
}

// Running reports whether the poller has been started and not stopped.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Refresh polls once out of band. It is skipped like any other tick when a
// fetch is already in flight, and does nothing while stopped.
func (p *Poller) Refresh() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	ctx, gen, timeout := p.ctx, p.gen, p.timeout
	p.refreshes.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.refreshes.Done()
		p.poll(ctx, gen, timeout)
	}()
}

// Results delivers a PollResult after every poll that reached a decision.
// Results are dropped when nobody is reading.
func (p *Poller) Results() <-chan PollResult {
	return p.resultCh
}

// poll performs a single tick for generation gen. The fetch is bounded by
// timeout, which is the generation's interval.
func (p *Poller) poll(ctx context.Context, gen uint64, timeout time.Duration) {
	if !p.inFlight.CompareAndSwap(false, true) {
		metrics.PollTotal.WithLabelValues(metrics.PollSkipped).Inc()
		p.logger.Debug().Msg("previous fetch still in flight; skipping tick")
		return
	}
	defer p.inFlight.Store(false)

	token, err := p.session.Token()
	if errors.Is(err, credential.ErrNoCredential) {
		if !p.apply(gen, nil) {
			metrics.PollTotal.WithLabelValues(metrics.PollDiscarded).Inc()
			return
		}
		metrics.PollTotal.WithLabelValues(metrics.PollNoCredential).Inc()
		metrics.Unread.Set(0)
		p.logger.Debug().Msg("no credential; bell disabled for this tick")
		p.sendResult(PollResult{Disabled: true, At: time.Now()})
		return
	}
	if err != nil {
		p.fail(gen, fmt.Errorf("reading credential: %w", err))
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	list, err := p.client.FetchNotifications(reqCtx, token)
	metrics.PollDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		p.fail(gen, err)
		return
	}

	if !p.apply(gen, list) {
		metrics.PollTotal.WithLabelValues(metrics.PollDiscarded).Inc()
		p.logger.Debug().Int("count", len(list)).Msg("discarding result that arrived after stop")
		return
	}

	metrics.PollTotal.WithLabelValues(metrics.PollOK).Inc()
	unread := p.store.UnreadCount()
	metrics.Unread.Set(float64(unread))
	p.logger.Debug().Int("count", len(list)).Int("unread", unread).Msg("notifications synced")
	p.sendResult(PollResult{Count: p.store.Len(), Unread: unread, At: time.Now()})
}

// apply replaces the store content if gen is still the live generation. The
// lock is held across the write so Stop cannot interleave with it.
func (p *Poller) apply(gen uint64, list []model.Notification) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running || gen != p.gen {
		return false
	}
	p.store.Replace(list)
	return true
}

// fail records a failed tick. The store is left untouched.
func (p *Poller) fail(gen uint64, err error) {
	if !p.current(gen) {
		metrics.PollTotal.WithLabelValues(metrics.PollDiscarded).Inc()
		return
	}

	authErr := remote.IsAuthError(err)
	if authErr {
		metrics.PollTotal.WithLabelValues(metrics.PollAuthError).Inc()
	} else {
		metrics.PollTotal.WithLabelValues(metrics.PollError).Inc()
	}
	p.logger.Warn().Err(err).Bool("auth", authErr).Msg("notification sync failed; retrying next tick")

	p.sendResult(PollResult{
		Count:     p.store.Len(),
		Unread:    p.store.UnreadCount(),
		Error:     err,
		AuthError: authErr,
		At:        time.Now(),
	})
}

func (p *Poller) current(gen uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running && gen == p.gen
}

// sendResult sends a PollResult on the result channel without blocking.
func (p *Poller) sendResult(r PollResult) {
	select {
	case p.resultCh <- r:
	default:
		// Drop if channel is full to avoid blocking the poller
	}
}
