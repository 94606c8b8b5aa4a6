package mclog

import (
	"context"
	"sync"
	"time"

	"github.com/mclog/mclog-go/internal/fetch"
	"github.com/mclog/mclog-go/pkg/mclog/record"
)

// State is the scheduler's acquisition mode.
type State int

const (
	// StateIdle means no acquisition is active.
	StateIdle State = iota
	// StateLive polls the current day's key on an interval.
	StateLive
	// StateStatic holds a single caller-supplied snapshot.
	StateStatic
	// StateRange holds the concatenated snapshot of a fetched
	// multi-day range.
	StateRange
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLive:
		return "live"
	case StateStatic:
		return "static"
	case StateRange:
		return "range"
	default:
		return "unknown"
	}
}

// Snapshot is the scheduler's current raw content: the acquisition
// state, the Live fetch key (if any), and one slab per source day.
type Snapshot struct {
	State State
	Key   string
	Slabs []record.DaySlab
}

// Scheduler owns the three acquisition modes and their switching
// rules: at most one loop is active, and entering any state cancels
// the previous state's loop before the new one starts. A stale
// in-flight poll that completes after a switch is discarded by a
// generation check, so it can never overwrite current content.
type Scheduler struct {
	cfg    schedConfig
	engine *Engine
	cache  *fetch.Cache

	mu         sync.Mutex
	closed     bool
	generation int
	cancel     context.CancelFunc
	state      State
	key        string
	slabs      []record.DaySlab
	updates    chan Snapshot
}

// NewScheduler creates a scheduler in the Idle state.
func NewScheduler(opts ...Option) (*Scheduler, error) {
	cfg := applyOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	log := cfg.logger
	if log == nil {
		log = discardLogger
	}
	cfg.logger = log

	return &Scheduler{
		cfg:     *cfg, // copy to ensure immutability
		engine:  NewEngine(cfg.messageCount, log),
		cache:   fetch.NewCache(cfg.cacheTTL, cfg.clock),
		updates: make(chan Snapshot, 1),
	}, nil
}

// Engine returns the derivation engine sharing the scheduler's
// configuration.
func (s *Scheduler) Engine() *Engine { return s.engine }

// Updates returns the snapshot channel. It is conflated: if the
// consumer lags, only the newest snapshot is retained. The channel
// closes when the scheduler is closed.
func (s *Scheduler) Updates() <-chan Snapshot { return s.updates }

// Current returns the latest snapshot.
func (s *Scheduler) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{State: s.state, Key: s.key, Slabs: s.slabs}
}

// SetLive enters Live mode: compute the current day's key, then
// fetch, publish and sleep pollInterval until cancelled or the day
// rolls over. With the follow-day option the key is recomputed each
// iteration instead; without it the loop stops scheduling further
// continuations once the wall-clock day leaves the entry key behind.
func (s *Scheduler) SetLive(ctx context.Context) error {
	if s.cfg.fetcher == nil {
		return ErrNoFetcher
	}

	key := s.cfg.keyFn(record.DayOf(s.cfg.clock()))
	loopCtx, gen, err := s.enter(ctx, StateLive, key)
	if err != nil {
		return err
	}
	go s.runLive(loopCtx, gen, key)
	return nil
}

// SetStatic enters Static mode with caller-supplied text (a dropped
// or uploaded file). day tags the text for date fallback; the zero
// Day uses the current wall-clock day. The snapshot is published
// synchronously; no loop runs.
func (s *Scheduler) SetStatic(text string, day record.Day) error {
	if day.IsZero() {
		day = record.DayOf(s.cfg.clock())
	}
	_, gen, err := s.enter(context.Background(), StateStatic, "")
	if err != nil {
		return err
	}
	s.publish(gen, Snapshot{
		State: StateStatic,
		Slabs: []record.DaySlab{{Day: day, Text: text}},
	})
	return nil
}

// SetRange enters Range mode: every day from start to end inclusive
// is fetched (concurrently, via the cache), reassembled in calendar
// order and published as a single static snapshot. A day whose fetch
// fails contributes empty text.
func (s *Scheduler) SetRange(ctx context.Context, start, end record.Day) error {
	if s.cfg.fetcher == nil {
		return ErrNoFetcher
	}
	days := record.DaysBetween(start, end)
	if days == nil {
		return ErrInvalidRange
	}

	loopCtx, gen, err := s.enter(ctx, StateRange, "")
	if err != nil {
		return err
	}
	go func() {
		slabs := fetch.Range(loopCtx, s.cachedFetcher(), fetch.KeyFunc(s.cfg.keyFn), days, s.cfg.logger)
		if loopCtx.Err() != nil {
			return
		}
		s.publish(gen, Snapshot{State: StateRange, Slabs: slabs})
	}()
	return nil
}

// Cancel returns the scheduler to Idle, cancelling any active loop.
func (s *Scheduler) Cancel() error {
	_, gen, err := s.enter(context.Background(), StateIdle, "")
	if err != nil {
		return err
	}
	s.publish(gen, Snapshot{State: StateIdle})
	return nil
}

// Close cancels any active loop and closes the updates channel.
// Safe to call multiple times.
func (s *Scheduler) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	close(s.updates)
	return nil
}

// enter switches acquisition state: the previous loop's context is
// cancelled and the generation is bumped so its in-flight work cannot
// publish anymore.
func (s *Scheduler) enter(parent context.Context, state State, key string) (context.Context, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, 0, ErrSchedulerClosed
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
	s.state = state
	s.key = key

	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.cfg.logger.Debug("acquisition state change", "state", state.String(), "key", key)
	return ctx, s.generation, nil
}

// publish records a snapshot and forwards it to the updates channel,
// unless it comes from a superseded generation. The channel send is
// conflated: a pending unread snapshot is replaced.
func (s *Scheduler) publish(gen int, snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.generation {
		return // stale loop, discarded
	}
	s.state = snap.State
	s.key = snap.Key
	s.slabs = snap.Slabs

	select {
	case <-s.updates:
	default:
	}
	select {
	case s.updates <- snap:
	default:
	}
}

func (s *Scheduler) runLive(ctx context.Context, gen int, key string) {
	timer := time.NewTimer(0) // fire immediately on entry
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		fresh := s.cfg.keyFn(record.DayOf(s.cfg.clock()))
		if fresh != key {
			if !s.cfg.followDay {
				// Day rolled over under a fixed key: stop scheduling
				// further continuations.
				s.cfg.logger.Debug("live key rolled over, stopping", "key", key, "fresh", fresh)
				return
			}
			s.cfg.logger.Debug("live key rolled over, following", "old", key, "new", fresh)
			if s.cfg.onKeyChange != nil {
				s.cfg.onKeyChange(key, fresh)
			}
			key = fresh
		}

		text, err := s.cfg.fetcher.FetchText(ctx, key)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			// Failure means empty content for this key; keep polling.
			s.cfg.logger.Debug("live fetch failed", "error", &FetchError{Key: key, Err: err})
			text = ""
		} else {
			s.cache.Put(key, text)
		}

		s.publish(gen, Snapshot{
			State: StateLive,
			Key:   key,
			Slabs: []record.DaySlab{{Day: record.DayOf(s.cfg.clock()), Text: text}},
		})

		// Cancellation is checked at the re-schedule point, not
		// mid-fetch; a slow fetch just delays the next iteration.
		timer.Reset(s.cfg.pollInterval)
	}
}

// cachedFetcher consults the scheduler's TTL cache before hitting the
// configured fetcher. Expired entries are swept on first use.
func (s *Scheduler) cachedFetcher() fetch.Fetcher {
	s.cache.Sweep()
	return fetch.FetcherFunc(func(ctx context.Context, key string) (string, error) {
		if text, ok := s.cache.Get(key); ok {
			return text, nil
		}
		text, err := s.cfg.fetcher.FetchText(ctx, key)
		if err != nil {
			return "", err
		}
		s.cache.Put(key, text)
		return text, nil
	})
}
