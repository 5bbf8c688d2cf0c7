// Package services composes the projection engine with caching, saved
// parameters and analytics publishing.
package services

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"savings/internal/amqp"
	"savings/internal/cache"
	"savings/internal/core"
)

// EventPublisher sends analytics events. *amqp.Client implements it.
type EventPublisher interface {
	PublishProjection(ctx context.Context, ev *amqp.ProjectionEvent) error
}

// ProjectionOptions configures a ProjectionService.
type ProjectionOptions struct {
	Mode      core.RoundingMode
	MaxMonths int
	CacheSize int
	CacheTTL  time.Duration
	Publisher EventPublisher
}

// ProjectionRequest is one projection to compute. An empty Mode uses the
// service default.
type ProjectionRequest struct {
	Inputs   core.Inputs
	Mode     core.RoundingMode
	ClientID string
	Language string
	Currency string
}

// Result is the full projection shown to the user.
type Result struct {
	Params   core.Params       `json:"params"`
	Mode     core.RoundingMode `json:"rounding"`
	Ready    bool              `json:"ready"`
	Clamped  bool              `json:"clamped,omitempty"`
	Monthly  []core.Snapshot   `json:"monthly"`
	Yearly   []core.YearBucket `json:"yearly"`
	Final    core.Snapshot     `json:"final"`
	HasFinal bool              `json:"-"`
}

type cachedProjection struct {
	monthly []core.Snapshot
	yearly  []core.YearBucket
}

type ProjectionService struct {
	mode      core.RoundingMode
	maxMonths int
	cache     *cache.LRUCache[cachedProjection]
	publisher EventPublisher
}

func NewProjectionService(opts ProjectionOptions) *ProjectionService {
	if opts.Mode == "" {
		opts.Mode = core.RoundingPrecise
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 256
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 10 * time.Minute
	}
	return &ProjectionService{
		mode:      opts.Mode,
		maxMonths: opts.MaxMonths,
		cache:     cache.NewLRUCache[cachedProjection](opts.CacheSize, opts.CacheTTL),
		publisher: opts.Publisher,
	}
}

// Mode returns the default rounding mode.
func (s *ProjectionService) Mode() core.RoundingMode {
	return s.mode
}

// Cache exposes the result cache for registration with a cache.Manager.
func (s *ProjectionService) Cache() cache.Cleaner {
	return s.cache
}

func (s *ProjectionService) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// Project runs the engine for req. When the inputs are not ready the result
// carries empty series and Ready=false.
func (s *ProjectionService) Project(ctx context.Context, req ProjectionRequest) Result {
	mode := req.Mode
	if mode == "" {
		mode = s.mode
	}

	p := req.Inputs.Params()
	res := Result{
		Params:  p,
		Mode:    mode,
		Ready:   req.Inputs.Ready(),
		Monthly: []core.Snapshot{},
		Yearly:  []core.YearBucket{},
	}
	if !res.Ready {
		return res
	}

	if s.maxMonths > 0 && p.TotalMonths > s.maxMonths {
		slog.WarnContext(ctx, "Projection horizon clamped",
			"total_months", p.TotalMonths,
			"max_months", s.maxMonths)
		p.TotalMonths = s.maxMonths
		res.Params = p
		res.Clamped = true
	}

	key := cacheKey(p, mode)
	entry, ok := s.cache.Get(key)
	if !ok {
		monthly := core.Project(p, mode)
		entry = cachedProjection{monthly: monthly, yearly: core.YearlyBuckets(monthly)}
		s.cache.Set(key, entry)
	}

	// callers may modify the slices; the cached copy stays untouched
	res.Monthly = append([]core.Snapshot(nil), entry.monthly...)
	res.Yearly = append([]core.YearBucket(nil), entry.yearly...)
	res.Final, res.HasFinal = core.Final(res.Monthly)

	if res.HasFinal {
		s.publish(ctx, req, p, res.Final)
	}
	return res
}

func (s *ProjectionService) publish(ctx context.Context, req ProjectionRequest, p core.Params, final core.Snapshot) {
	if s.publisher == nil {
		return
	}
	ev := amqp.NewProjectionEvent(p.InitialAmount, p.MonthlyAmount, p.AnnualRatePercent, p.TotalMonths, final.Total)
	ev.ClientID = req.ClientID
	ev.Language = req.Language
	ev.Currency = req.Currency

	if err := s.publisher.PublishProjection(ctx, ev); err != nil {
		slog.WarnContext(ctx, "Failed to publish projection event", "error", err)
	}
}

// cacheKey encodes the params bit-exactly so distinct inputs never share an
// entry.
func cacheKey(p core.Params, mode core.RoundingMode) string {
	var b strings.Builder
	b.WriteString(string(mode))
	for _, f := range []float64{p.InitialAmount, p.MonthlyAmount, p.AnnualRatePercent} {
		b.WriteByte('|')
		b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	}
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(p.TotalMonths))
	return b.String()
}
