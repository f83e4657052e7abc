package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"community-launchpad/internal/chain"
	"community-launchpad/internal/domain"
	"community-launchpad/internal/graduation"
	"community-launchpad/internal/observability"
	"community-launchpad/internal/projector"
	"community-launchpad/internal/storage"
)

// Runner consumes trade events from a source and drives each one through
// projection and graduation. Events for unconfigured chains and events
// failing validation are dropped with a log line; transient processing
// failures are logged and the event is skipped, relying on feed redelivery
// for recovery.
type Runner struct {
	source     TradeEventSource
	nodes      storage.ChainNodeStore
	projector  *projector.Projector
	graduation *graduation.Handler
	metrics    *observability.Metrics
	logger     *log.Logger
}

// RunnerOptions contains dependencies for creating a Runner.
type RunnerOptions struct {
	Source     TradeEventSource
	ChainNodes storage.ChainNodeStore
	Projector  *projector.Projector
	Graduation *graduation.Handler
	Metrics    *observability.Metrics // optional
	Logger     *log.Logger
}

// NewRunner creates a runner.
func NewRunner(opts RunnerOptions) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		source:     opts.Source,
		nodes:      opts.ChainNodes,
		projector:  opts.Projector,
		graduation: opts.Graduation,
		metrics:    opts.Metrics,
		logger:     logger,
	}
}

// Run subscribes to the source and processes events until the context is
// cancelled or the source closes its channel. A missing operator key is the
// only processing error that aborts the run.
func (r *Runner) Run(ctx context.Context) error {
	eventsCh, err := r.source.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe to trade events: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-eventsCh:
			if !ok {
				r.logger.Println("[runner] event channel closed")
				return nil
			}
			if err := r.process(ctx, ev); err != nil {
				return err
			}
		}
	}
}

func (r *Runner) process(ctx context.Context, ev *domain.TradeEvent) error {
	start := time.Now()
	if r.metrics != nil {
		r.metrics.TradeEventsReceived.Inc()
	}

	node, err := r.nodes.GetByEthChainID(ctx, ev.EthChainID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			r.logger.Printf("[runner] DROP event %s: chain %d not configured", ev.TransactionHash, ev.EthChainID)
			r.dropped("unknown_chain")
			return nil
		}
		r.logger.Printf("[runner] look up chain %d for %s: %v", ev.EthChainID, ev.TransactionHash, err)
		r.failed("chain_lookup")
		return nil
	}

	if err := r.projector.ProcessTrade(ctx, ev); err != nil {
		if errors.Is(err, domain.ErrInvalidEvent) {
			r.logger.Printf("[runner] DROP event %s: %v", ev.TransactionHash, err)
			r.dropped("invalid")
			return nil
		}
		r.logger.Printf("[runner] project trade %s: %v", ev.TransactionHash, err)
		r.failed("project")
		return nil
	}

	if err := r.graduation.HandleTrade(ctx, ev, node); err != nil {
		if errors.Is(err, chain.ErrMissingOperatorKey) {
			return fmt.Errorf("graduate after trade %s: %w", ev.TransactionHash, err)
		}
		if errors.Is(err, storage.ErrNotFound) {
			r.logger.Printf("[runner] SKIP graduation for %s: token %s not tracked", ev.TransactionHash, ev.TokenAddress)
			r.dropped("unknown_token")
			return nil
		}
		r.logger.Printf("[runner] graduation check for %s: %v", ev.TransactionHash, err)
		r.failed("graduation")
		return nil
	}

	if r.metrics != nil {
		r.metrics.TradeEventsProjected.Inc()
		r.metrics.EventProcessingLatency.Observe(time.Since(start).Seconds())
		r.metrics.LastSuccessfulEvent.SetToCurrentTime()
	}
	return nil
}

func (r *Runner) dropped(reason string) {
	if r.metrics != nil {
		r.metrics.TradeEventsDropped.WithLabelValues(reason).Inc()
	}
}

func (r *Runner) failed(stage string) {
	if r.metrics != nil {
		r.metrics.EventProcessingErrors.WithLabelValues(stage).Inc()
	}
}
