// Package pos is the point-of-sale service. It owns the application state and
// runs every mutation as a critical section: the change is staged on a copy,
// committed through the store adapter and only then made visible.
package pos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
	"github.com/CuongMinh72/bakery-sys/internal/costing"
	"github.com/CuongMinh72/bakery-sys/internal/inventory"
	"github.com/CuongMinh72/bakery-sys/internal/observability"
	"github.com/CuongMinh72/bakery-sys/internal/orders"
	"github.com/CuongMinh72/bakery-sys/internal/platform/lock"
	"github.com/CuongMinh72/bakery-sys/internal/store"
)

const tracerName = "github.com/CuongMinh72/bakery-sys/internal/pos"

// Config tunes the business rules of the service.
type Config struct {
	Policy    inventory.Policy
	MarkupPct decimal.Decimal
	Discounts orders.DiscountTable
	// SeedDefaults fills an empty catalog with the starter products.
	SeedDefaults bool
	// ReloadOnLock reloads state from the adapter after the lock is taken,
	// for stores shared with other processes.
	ReloadOnLock bool
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the metrics collectors.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLocker replaces the in-process lock.
func WithLocker(l lock.Locker) Option {
	return func(s *Service) { s.locker = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces the random id suffix generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newSuffix = gen }
}

// Service is the single mutating entry point of the shop.
type Service struct {
	adapter   store.Adapter
	locker    lock.Locker
	cfg       Config
	logger    *slog.Logger
	metrics   *observability.Metrics
	tracer    trace.Tracer
	now       func() time.Time
	newSuffix func() string

	mu    sync.RWMutex
	state *bakery.State
}

// NewService loads the state from adapter.
func NewService(ctx context.Context, adapter store.Adapter, cfg Config, opts ...Option) (*Service, error) {
	if adapter == nil {
		return nil, errors.New("pos: adapter required")
	}
	if cfg.Policy == "" {
		cfg.Policy = inventory.PolicyStrict
	}
	if cfg.MarkupPct.IsZero() {
		cfg.MarkupPct = costing.DefaultMarkupPct
	}
	if cfg.Discounts == nil {
		cfg.Discounts = orders.DefaultDiscounts
	}
	s := &Service{
		adapter:   adapter,
		locker:    lock.NewLocal(),
		cfg:       cfg,
		logger:    slog.Default(),
		tracer:    otel.Tracer(tracerName),
		now:       time.Now,
		newSuffix: randomSuffix,
	}
	for _, opt := range opts {
		opt(s)
	}
	st, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.state = st
	return s, nil
}

func randomSuffix() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *Service) newID(prefix string) string {
	return prefix + "-" + s.newSuffix()
}

func (s *Service) load(ctx context.Context) (*bakery.State, error) {
	st, err := store.LoadState(ctx, s.adapter, store.LoadOptions{SeedDefaults: s.cfg.SeedDefaults})
	if err != nil {
		return nil, fmt.Errorf("pos: load state: %w", err)
	}
	return st, nil
}

// Refresh replaces the in-memory state with what the adapter holds.
func (s *Service) Refresh(ctx context.Context) error {
	release, err := s.locker.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("pos: acquire lock: %w", err)
	}
	defer s.release(ctx, release)
	st, err := s.load(ctx)
	if err != nil {
		return err
	}
	s.swap(st)
	return nil
}

func (s *Service) current() *bakery.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Service) swap(st *bakery.State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *Service) release(ctx context.Context, release lock.Release) {
	if err := release(context.WithoutCancel(ctx)); err != nil {
		s.logger.Warn("release lock", slog.Any("error", err))
	}
}

// mutate runs fn on a copy of the state under the global lock, commits the
// collections fn touched and publishes the copy. Any error or panic leaves
// the published state and the store untouched.
func (s *Service) mutate(ctx context.Context, op string, fn func(st *bakery.State) error, attrs ...attribute.KeyValue) (err error) {
	ctx, span := s.tracer.Start(ctx, "pos."+op, trace.WithAttributes(attrs...))
	defer span.End()
	tracker := s.metrics.Track(op)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		err = tracker.End(err)
	}()

	release, err := s.locker.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("pos: acquire lock: %w", err)
	}
	defer s.release(ctx, release)

	base := s.current()
	if s.cfg.ReloadOnLock {
		if base, err = s.load(ctx); err != nil {
			return err
		}
	}
	next := base.Clone()
	if err := apply(next, fn); err != nil {
		if errors.Is(err, errPanic) {
			s.logger.Error("mutation panicked", slog.String("op", op), slog.Any("error", err))
		} else {
			s.logger.Warn("mutation rejected", slog.String("op", op), slog.Any("error", err))
		}
		return err
	}
	dirty := next.Dirty()
	if err := store.Commit(ctx, s.adapter, base, next); err != nil {
		s.logger.Error("commit failed", slog.String("op", op), slog.Any("collections", dirty), slog.Any("error", err))
		return fmt.Errorf("pos: %s: %w", op, err)
	}
	next.ResetDirty()
	s.swap(next)
	span.SetAttributes(attribute.Int("collections", len(dirty)))
	return nil
}

var errPanic = errors.New("pos: mutation panicked")

func apply(st *bakery.State, fn func(st *bakery.State) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errPanic, r)
		}
	}()
	return fn(st)
}
