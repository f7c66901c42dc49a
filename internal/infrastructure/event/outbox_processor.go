package event

import (
	"context"
	"sync"
	"time"

	"github.com/erp/posting/internal/domain/shared"
	"github.com/erp/posting/internal/infrastructure/config"
	"github.com/erp/posting/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DispatchLock keeps a single outbox dispatcher active across server instances
type DispatchLock interface {
	// TryAcquire returns acquired=false without error when another instance holds the lock.
	// The returned release func must be called once the batch is done.
	TryAcquire(ctx context.Context) (release func(context.Context) error, acquired bool, err error)
}

type OutboxProcessorConfig struct {
	BatchSize        int
	PollInterval     time.Duration
	CleanupEnabled   bool
	CleanupRetention time.Duration
	CleanupInterval  time.Duration
}

func DefaultOutboxProcessorConfig() OutboxProcessorConfig {
	return OutboxProcessorConfig{
		BatchSize:        100,
		PollInterval:     5 * time.Second,
		CleanupEnabled:   true,
		CleanupRetention: 7 * 24 * time.Hour,
		CleanupInterval:  time.Hour,
	}
}

// OutboxProcessorConfigFrom overlays the non-zero values of the outbox config section
// on the defaults
func OutboxProcessorConfigFrom(cfg config.OutboxConfig) OutboxProcessorConfig {
	out := DefaultOutboxProcessorConfig()
	if cfg.BatchSize > 0 {
		out.BatchSize = cfg.BatchSize
	}
	if cfg.PollInterval > 0 {
		out.PollInterval = cfg.PollInterval
	}
	if cfg.CleanupRetention > 0 {
		out.CleanupRetention = cfg.CleanupRetention
	}
	return out
}

// OutboxProcessor polls committed outbox entries and publishes them on the bus. An entry
// is claimed before delivery, so two processors never publish the same row.
type OutboxProcessor struct {
	repo       shared.OutboxRepository
	bus        shared.EventPublisher
	serializer *EventSerializer
	cfg        OutboxProcessorConfig
	lock       DispatchLock
	log        *zap.Logger

	cancel context.CancelFunc
	loops  sync.WaitGroup
}

func NewOutboxProcessor(
	repo shared.OutboxRepository,
	bus shared.EventPublisher,
	serializer *EventSerializer,
	cfg OutboxProcessorConfig,
	log *zap.Logger,
) *OutboxProcessor {
	if log == nil {
		log = zap.NewNop()
	}
	return &OutboxProcessor{
		repo:       repo,
		bus:        bus,
		serializer: serializer,
		cfg:        cfg,
		log:        log.Named("outbox"),
	}
}

// WithDispatchLock makes each batch conditional on holding lock
func (p *OutboxProcessor) WithDispatchLock(lock DispatchLock) *OutboxProcessor {
	p.lock = lock
	return p
}

func (p *OutboxProcessor) Start(ctx context.Context) error {
	ctx, p.cancel = context.WithCancel(ctx)

	p.every(ctx, p.cfg.PollInterval, func(ctx context.Context) { p.ProcessBatch(ctx) })
	if p.cfg.CleanupEnabled {
		p.every(ctx, p.cfg.CleanupInterval, p.purge)
	}

	p.log.Info("outbox processor started",
		zap.Int("batch_size", p.cfg.BatchSize),
		zap.Duration("poll_interval", p.cfg.PollInterval),
		zap.Bool("dispatch_lock", p.lock != nil),
	)
	return nil
}

// Stop cancels the loops and waits for the batch in progress until ctx expires
func (p *OutboxProcessor) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	exited := make(chan struct{})
	go func() {
		p.loops.Wait()
		close(exited)
	}()

	select {
	case <-exited:
		p.log.Info("outbox processor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *OutboxProcessor) every(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	p.loops.Go(func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn(ctx)
			}
		}
	})
}

// ProcessBatch publishes up to BatchSize new entries and BatchSize due retries and
// returns how many were delivered. It does nothing while another instance holds the
// dispatch lock.
func (p *OutboxProcessor) ProcessBatch(ctx context.Context) int {
	if p.lock != nil {
		release, acquired, err := p.lock.TryAcquire(ctx)
		switch {
		case err != nil:
			p.log.Warn("outbox dispatch lock unavailable", zap.Error(err))
			return 0
		case !acquired:
			p.log.Debug("outbox dispatch lock held elsewhere")
			return 0
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				p.log.Warn("outbox dispatch lock release failed", zap.Error(err))
			}
		}()
	}

	delivered := 0
	sources := []struct {
		name string
		find func() ([]*shared.OutboxEntry, error)
	}{
		{"pending", func() ([]*shared.OutboxEntry, error) { return p.repo.FindPending(ctx, p.cfg.BatchSize) }},
		{"retryable", func() ([]*shared.OutboxEntry, error) {
			return p.repo.FindRetryable(ctx, time.Now(), p.cfg.BatchSize)
		}},
	}
	for _, src := range sources {
		entries, err := src.find()
		if err != nil {
			p.log.Error("outbox scan failed", zap.String("source", src.name), zap.Error(err))
			return delivered
		}
		for _, entry := range p.claim(ctx, entries) {
			if p.deliver(ctx, entry) {
				delivered++
			}
		}
	}
	return delivered
}

func (p *OutboxProcessor) claim(ctx context.Context, entries []*shared.OutboxEntry) []*shared.OutboxEntry {
	if len(entries) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	claimed, err := p.repo.MarkProcessing(ctx, ids)
	if err != nil {
		p.log.Error("outbox claim failed", zap.Int("entries", len(ids)), zap.Error(err))
		return nil
	}
	return claimed
}

func (p *OutboxProcessor) deliver(ctx context.Context, entry *shared.OutboxEntry) bool {
	ctx, span := telemetry.StartSpan(ctx, "outbox.dispatch",
		telemetry.AttrEventType.String(entry.EventType),
		attribute.Int("outbox.attempts", entry.Attempts),
	)
	defer span.End()

	log := p.log.With(
		zap.Stringer("event_id", entry.EventID),
		zap.String("event_type", entry.EventType),
	)

	event, err := p.serializer.Deserialize(entry.EventType, entry.Payload)
	if err == nil {
		err = p.bus.Publish(ctx, event)
	}
	if err != nil {
		telemetry.RecordError(span, err)
		p.retryLater(ctx, log, entry, err)
		return false
	}

	entry.Delivered()
	if err := p.repo.Update(ctx, entry); err != nil {
		log.Error("outbox entry delivered but not marked sent", zap.Error(err))
		return false
	}
	log.Debug("outbox entry delivered")
	return true
}

func (p *OutboxProcessor) retryLater(ctx context.Context, log *zap.Logger, entry *shared.OutboxEntry, cause error) {
	entry.AttemptFailed(cause.Error())

	if entry.Status == shared.OutboxStatusDead {
		log.Warn("outbox entry dead lettered",
			zap.String("aggregate_type", entry.AggregateType),
			zap.Stringer("aggregate_id", entry.AggregateID),
			zap.String("scope", entry.Scope.String()),
			zap.Int("attempts", entry.Attempts),
			zap.Error(cause),
		)
	} else {
		log.Error("outbox delivery failed",
			zap.Int("attempts", entry.Attempts),
			zap.Timep("next_attempt_at", entry.NextAttemptAt),
			zap.Error(cause),
		)
	}

	if err := p.repo.Update(ctx, entry); err != nil {
		log.Error("outbox entry update failed", zap.Error(err))
	}
}

func (p *OutboxProcessor) purge(ctx context.Context) {
	cutoff := time.Now().Add(-p.cfg.CleanupRetention)
	deleted, err := p.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		p.log.Error("outbox purge failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		p.log.Info("outbox purged", zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
	}
}
