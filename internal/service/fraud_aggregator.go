package service

import (
	"context"
	"sync"
	"time"

	"github.com/Ari-Han-t/CAPS/internal/domain"
	"github.com/Ari-Han-t/CAPS/internal/infra/observability"
	"github.com/Ari-Han-t/CAPS/internal/port"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ListState is the display state of the merchant list.
type ListState string

const (
	ListLoading   ListState = "LOADING"
	ListEmpty     ListState = "EMPTY"
	ListPopulated ListState = "POPULATED"
)

// FraudView is a snapshot of the fraud panel.
type FraudView struct {
	Open      bool                       `json:"open"`
	Loading   bool                       `json:"loading"`
	Degraded  bool                       `json:"degraded"`
	Stats     *domain.FraudStats         `json:"stats"`
	Merchants []domain.MerchantScoreData `json:"merchants"`
	ListState ListState                  `json:"list_state"`
	UpdatedAt time.Time                  `json:"updated_at,omitempty"`
}

type fraudSource interface {
	port.MerchantScoresFetcher
	port.FraudStatsFetcher
}

// FraudAggregator keeps the merchant list and network stats of the fraud
// panel. Both are replaced together on every refresh and never merged.
//
// Every Open, Close and Refresh advances an epoch; a refresh only applies its
// results when no newer one of those happened while it was in flight.
type FraudAggregator struct {
	source  fraudSource
	cache   port.Cache[domain.MerchantScoreData]
	metrics *observability.Metrics
	logger  *zap.Logger

	mu        sync.Mutex
	epoch     uint64
	open      bool
	loading   bool
	degraded  bool
	stats     *domain.FraudStats
	merchants []domain.MerchantScoreData
	updatedAt time.Time
	onChange  func(FraudView)
}

// NewFraudAggregator creates an aggregator with an empty, closed panel.
func NewFraudAggregator(
	source fraudSource,
	cache port.Cache[domain.MerchantScoreData],
	metrics *observability.Metrics,
	logger *zap.Logger,
) *FraudAggregator {
	return &FraudAggregator{
		source:  source,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

// OnChange sets the callback invoked whenever the view changes.
func (a *FraudAggregator) OnChange(fn func(FraudView)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onChange = fn
}

// Open marks the panel open and refreshes it.
func (a *FraudAggregator) Open(ctx context.Context) FraudView {
	a.mu.Lock()
	a.open = true
	a.mu.Unlock()
	return a.Refresh(ctx)
}

// Close marks the panel closed. Refreshes still in flight are discarded.
func (a *FraudAggregator) Close() FraudView {
	a.mu.Lock()
	a.epoch++
	a.open = false
	a.loading = false
	a.mu.Unlock()

	a.notify()
	return a.View()
}

// Refresh fetches the merchant list and stats concurrently and waits for both.
// If either fetch fails the view becomes empty and degraded; the failure is
// logged and counted but not returned.
func (a *FraudAggregator) Refresh(ctx context.Context) FraudView {
	ctx, span := tracer.Start(ctx, "FraudAggregator.Refresh")
	defer span.End()

	a.mu.Lock()
	a.epoch++
	epoch := a.epoch
	a.loading = true
	a.mu.Unlock()
	a.notify()

	var (
		merchants []domain.MerchantScoreData
		stats     *domain.FraudStats
	)

	start := time.Now()
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		m, err := a.source.ListMerchantScores(gCtx)
		if err != nil {
			a.metrics.IncrExternalError("fraud")
			return &domain.ErrAggregationFetch{Source: "merchants", Err: err}
		}
		merchants = m
		return nil
	})

	g.Go(func() error {
		s, err := a.source.GetFraudStats(gCtx)
		if err != nil {
			a.metrics.IncrExternalError("fraud")
			return &domain.ErrAggregationFetch{Source: "stats", Err: err}
		}
		stats = s
		return nil
	})

	err := g.Wait()
	a.metrics.RecordRequestDuration("fraud_refresh", time.Since(start))

	a.mu.Lock()
	if epoch != a.epoch {
		a.mu.Unlock()
		a.metrics.IncrFraudRefresh("discarded")
		a.logger.Debug("discarding superseded fraud refresh", zap.Uint64("epoch", epoch))
		span.SetAttributes(attribute.Bool("fraud.discarded", true))
		return a.View()
	}

	a.loading = false
	a.updatedAt = time.Now()
	if err != nil {
		a.merchants = nil
		a.stats = nil
		a.degraded = true
		a.cache.Replace(nil)
		a.mu.Unlock()

		a.logger.Warn("failed to load fraud data", zap.Error(err))
		a.metrics.IncrFraudRefresh("error")
		span.RecordError(err)
	} else {
		a.merchants = merchants
		a.stats = stats
		a.degraded = false
		byVPA := make(map[string]domain.MerchantScoreData, len(merchants))
		for _, m := range merchants {
			byVPA[m.MerchantVPA] = m
		}
		a.cache.Replace(byVPA)
		a.mu.Unlock()

		a.metrics.IncrFraudRefresh("success")
		span.SetAttributes(attribute.Int("fraud.merchants", len(merchants)))
	}

	a.notify()
	return a.View()
}

// Merchant returns the score of vpa from the last successful refresh. The
// lookup index is swapped under the same lock as the merchant list, so it
// always agrees with View.
func (a *FraudAggregator) Merchant(vpa string) (domain.MerchantScoreData, error) {
	a.mu.Lock()
	m, ok := a.cache.Get(vpa)
	a.mu.Unlock()

	if ok {
		a.metrics.IncrCacheHit("merchant")
		return m, nil
	}
	a.metrics.IncrCacheMiss("merchant")
	return domain.MerchantScoreData{}, &domain.ErrNotFound{Resource: "merchant", ID: vpa}
}

// View returns a copy of the current panel state.
func (a *FraudAggregator) View() FraudView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.viewLocked()
}

func (a *FraudAggregator) viewLocked() FraudView {
	v := FraudView{
		Open:      a.open,
		Loading:   a.loading,
		Degraded:  a.degraded,
		Merchants: make([]domain.MerchantScoreData, len(a.merchants)),
		UpdatedAt: a.updatedAt,
	}
	copy(v.Merchants, a.merchants)
	if a.stats != nil {
		s := *a.stats
		v.Stats = &s
	}

	switch {
	case a.loading:
		v.ListState = ListLoading
	case len(a.merchants) == 0:
		v.ListState = ListEmpty
	default:
		v.ListState = ListPopulated
	}
	return v
}

func (a *FraudAggregator) notify() {
	a.mu.Lock()
	fn := a.onChange
	v := a.viewLocked()
	a.mu.Unlock()
	if fn != nil {
		fn(v)
	}
}
