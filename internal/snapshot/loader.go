package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/davidbz/costwatch/internal/domain"
	"github.com/davidbz/costwatch/internal/observability"
)

// ErrSnapshotUnavailable indicates no usable price document could be loaded.
var ErrSnapshotUnavailable = errors.New("price snapshot unavailable")

// Applier receives parsed snapshots.
type Applier interface {
	ApplySnapshot(snap *domain.Snapshot) int
	Revision() uint64
}

// Result describes a successfully applied snapshot.
type Result struct {
	Source        string
	ModelsApplied int
	LastUpdated   string
	Revision      uint64
}

// AppliedHook runs after a snapshot has been applied.
type AppliedHook func(ctx context.Context, result Result)

// EventSnapshotApplied is published once a snapshot has been applied.
const EventSnapshotApplied = "price_snapshot_applied"

// PublishApplied returns a hook that publishes the applied snapshot together
// with the model rates now in effect. Estimates are never cached, so the next
// request already prices against these rates.
func PublishApplied(events domain.EventPublisher, rates domain.RateSource) AppliedHook {
	return func(ctx context.Context, result Result) {
		card := rates.Current()

		events.Publish(ctx, EventSnapshotApplied, map[string]interface{}{
			"source":         result.Source,
			"models_applied": result.ModelsApplied,
			"revision":       result.Revision,
			"last_updated":   domain.FormatLastUpdated(result.LastUpdated),
			"models":         card.Models(),
		})
	}
}

// Loader performs the one-shot background load of the price snapshot.
type Loader struct {
	source  Source
	table   Applier
	timeout time.Duration

	once sync.Once
	done chan struct{}

	mu    sync.Mutex
	hooks []AppliedHook
}

// NewLoader creates a new loader. A nil source disables loading.
func NewLoader(source Source, table Applier, timeout time.Duration) *Loader {
	return &Loader{
		source:  source,
		table:   table,
		timeout: timeout,
		done:    make(chan struct{}),
	}
}

// OnApplied registers a hook fired once per applied snapshot.
func (l *Loader) OnApplied(hook AppliedHook) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.hooks = append(l.hooks, hook)
}

// Start launches the load in the background. Calls after the first are ignored.
func (l *Loader) Start(ctx context.Context) {
	l.once.Do(func() {
		go func() {
			defer close(l.done)
			l.run(ctx)
		}()
	})
}

// Done is closed once the background load has finished, successfully or not.
func (l *Loader) Done() <-chan struct{} {
	return l.done
}

// Close releases the source once no load can still be using it.
func (l *Loader) Close() error {
	closer, ok := l.source.(io.Closer)
	if !ok {
		return nil
	}

	if err := closer.Close(); err != nil {
		return fmt.Errorf("failed to close %s source: %w", l.source.Name(), err)
	}
	return nil
}

func (l *Loader) run(ctx context.Context) {
	if l.source == nil {
		observability.FromContext(ctx).Info("price snapshot loading disabled, using built-in pricing")
		return
	}

	ctx = observability.WithSnapshotSource(ctx, l.source.Name())
	logger := observability.FromContext(ctx)

	result, err := l.Load(ctx)
	if err != nil {
		logger.Info("using fallback pricing data", observability.Error(err))
		return
	}

	logger.Info("loaded pricing data",
		observability.Int("models_applied", result.ModelsApplied),
		observability.String("last_updated", result.LastUpdated),
		observability.Uint64("revision", result.Revision))
}

// Load fetches, parses and applies the snapshot, then fires the applied hooks.
func (l *Loader) Load(ctx context.Context) (Result, error) {
	if l.source == nil {
		return Result{}, fmt.Errorf("%w: no source configured", ErrSnapshotUnavailable)
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	data, err := l.source.Fetch(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrSnapshotUnavailable, err)
	}

	snap, err := Parse(data)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrSnapshotUnavailable, err)
	}

	applied := l.table.ApplySnapshot(snap)
	result := Result{
		Source:        l.source.Name(),
		ModelsApplied: applied,
		LastUpdated:   snap.LastUpdated,
		Revision:      l.table.Revision(),
	}

	l.mu.Lock()
	hooks := append([]AppliedHook(nil), l.hooks...)
	l.mu.Unlock()

	for _, hook := range hooks {
		hook(ctx, result)
	}

	return result, nil
}
