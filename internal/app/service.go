// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/dugout-io/dugout/internal/adapters/cache"
	catalogadapter "github.com/dugout-io/dugout/internal/adapters/catalog"
	"github.com/dugout-io/dugout/internal/adapters/http/api"
	jobqueue "github.com/dugout-io/dugout/internal/adapters/mq/queue"
	workerpool "github.com/dugout-io/dugout/internal/adapters/mq/worker"
	"github.com/dugout-io/dugout/internal/adapters/repository"
	"github.com/dugout-io/dugout/internal/domain/constraint"
	"github.com/dugout-io/dugout/internal/domain/lineup"
	"github.com/dugout-io/dugout/internal/domain/model"
	"github.com/dugout-io/dugout/internal/domain/optimizer"
	"github.com/dugout-io/dugout/internal/domain/result"
	"github.com/dugout-io/dugout/pkg/logger"
	"github.com/dugout-io/dugout/pkg/metrics"
)

// snapshot couples one immutable catalog with the value index built from
// it. The pair is swapped atomically on refresh so readers never observe a
// catalog from one version and an index from another.
type snapshot struct {
	catalog *model.Catalog
	index   *repository.TreapIndex
}

// Service implements the API dependencies for the squad optimization system.
type Service struct {
	mu sync.RWMutex

	// Core components
	provider    catalogadapter.Provider
	snap        *snapshot
	selector    *optimizer.Selector
	resultCache *cache.ResultCache
	jobQueue    *jobqueue.InMemoryQueue
	workerPool  *workerpool.Pool

	// Configuration
	defaultMode      optimizer.Mode
	stateLimit       int
	nodeLimit        int
	cacheSize        int
	workerCount      int
	queueSize        int
	presetFormations []model.Formation
	presetBudget     float64

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDefaultMode sets the solver mode used when a request names none.
func WithDefaultMode(m optimizer.Mode) Option {
	return func(s *Service) {
		s.defaultMode = m
	}
}

// WithStateLimit caps the exact solver's dynamic-programming state count.
func WithStateLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.stateLimit = n
		}
	}
}

// WithNodeLimit caps the exact solver's branch-and-bound node count.
func WithNodeLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.nodeLimit = n
		}
	}
}

// WithCacheSize bounds the result cache.
func WithCacheSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.cacheSize = n
		}
	}
}

// WithWorkerCount sets the number of precompute worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the precompute job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithPresetFormations sets the formations warmed after each refresh.
func WithPresetFormations(fs []model.Formation) Option {
	return func(s *Service) {
		s.presetFormations = fs
	}
}

// WithPresetBudget sets the budget used for warm-up requests.
func WithPresetBudget(b float64) Option {
	return func(s *Service) {
		if b > 0 {
			s.presetBudget = b
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration. The provider
// supplies catalog snapshots; everything else has defaults.
func New(provider catalogadapter.Provider, opts ...Option) *Service {
	s := &Service{
		provider:     provider,
		defaultMode:  optimizer.ModeHeuristic,
		cacheSize:    1024,
		workerCount:  runtime.NumCPU(),
		queueSize:    256,
		presetBudget: 100.0,
		presetFormations: []model.Formation{
			{Defenders: 3, Midfielders: 4, Forwards: 3},
			{Defenders: 4, Midfielders: 4, Forwards: 2},
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the initial catalog and starts the precompute pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting squad optimization service...")

	selectorOpts := []optimizer.Option{optimizer.WithMode(s.defaultMode)}
	if s.stateLimit > 0 {
		selectorOpts = append(selectorOpts, optimizer.WithStateLimit(s.stateLimit))
	}
	if s.nodeLimit > 0 {
		selectorOpts = append(selectorOpts, optimizer.WithNodeLimit(s.nodeLimit))
	}
	s.selector = optimizer.New(selectorOpts...)
	s.resultCache = cache.New(cache.WithMaxSize(s.cacheSize))
	s.jobQueue = jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(s.queueSize))
	s.workerPool = workerpool.NewPool(s.workerCount, s.jobQueue, s)
	s.workerPool.Start(ctx)

	s.started = true
	s.mu.Unlock()

	if _, err := s.Refresh(ctx); err != nil {
		return fmt.Errorf("initial catalog load: %w", err)
	}

	s.logger.Info(ctx, "squad optimization service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("cacheSize", s.cacheSize),
		logger.String("defaultMode", s.defaultMode.String()),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping squad optimization service...")

	if s.workerPool != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		_ = s.workerPool.Shutdown(shutdownCtx)
		cancel()
	}

	s.started = false
	s.logger.Info(ctx, "squad optimization service stopped")
}

// current returns the active snapshot, or nil before the first refresh.
func (s *Service) current() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Optimize validates the request and runs the selection pipeline, serving
// repeat requests from the result cache.
func (s *Service) Optimize(ctx context.Context, req constraint.Request, modeName string) (result.Result, error) {
	spec, err := constraint.Validate(req)
	if err != nil {
		metrics.RecordInvalidConstraint()
		return result.Result{}, err
	}

	mode := s.defaultMode
	if modeName != "" {
		mode, err = optimizer.ParseMode(modeName)
		if err != nil {
			metrics.RecordInvalidConstraint()
			return result.Result{}, &constraint.InvalidConstraintError{
				Field:  "mode",
				Reason: `must be "exact" or "heuristic"`,
			}
		}
	}

	snap := s.current()
	if snap == nil {
		return result.Result{}, fmt.Errorf("no catalog loaded")
	}

	return s.solve(ctx, snap, spec, mode)
}

// solve runs the selection pipeline for a validated spec against one
// snapshot, deduplicating concurrent identical requests via the cache.
func (s *Service) solve(ctx context.Context, snap *snapshot, spec constraint.Spec, mode optimizer.Mode) (result.Result, error) {
	key := cache.Key(snap.catalog.Version(), mode.String()+"|"+spec.Key())
	res, _, err := s.resultCache.Do(ctx, key, func() (result.Result, error) {
		start := time.Now()
		sel, serr := s.selector.SelectWithMode(ctx, snap.catalog, spec, mode)
		if serr != nil {
			if errors.Is(serr, optimizer.ErrInfeasible) {
				metrics.RecordInfeasible()
			}
			return result.Result{}, serr
		}
		metrics.RecordOptimization(sel.Mode.String(), time.Since(start).Seconds())
		if sel.Fallback {
			metrics.RecordFallback()
		}

		lu, lerr := lineup.Derive(sel.Roster, spec.Formation())
		if lerr != nil {
			return result.Result{}, lerr
		}
		return result.Assemble(snap.catalog, spec, sel, lu), nil
	})
	return res, err
}

// Warm executes one precompute job. Jobs built against a superseded
// catalog version are skipped.
func (s *Service) Warm(ctx context.Context, job jobqueue.Job) error {
	snap := s.current()
	if snap == nil || snap.catalog.Version() != job.CatalogVersion {
		return nil
	}
	spec, err := constraint.Validate(job.Request)
	if err != nil {
		return err
	}
	if _, err := s.solve(ctx, snap, spec, s.defaultMode); err != nil {
		if errors.Is(err, optimizer.ErrInfeasible) {
			// A preset no catalog can satisfy is not a pipeline fault.
			return nil
		}
		return err
	}
	return nil
}

// Refresh loads a new catalog snapshot, swaps it in atomically, and
// enqueues warm-up jobs for the preset formations.
func (s *Service) Refresh(ctx context.Context) (api.CatalogInfo, error) {
	cat, err := s.provider.Load(ctx)
	if err != nil {
		return api.CatalogInfo{}, fmt.Errorf("load catalog: %w", err)
	}

	snap := &snapshot{
		catalog: cat,
		index:   repository.NewTreapIndex(cat),
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	metrics.UpdateCatalogSize(cat.Len())
	metrics.RecordCatalogRefresh()
	s.logger.Info(ctx, "catalog refreshed",
		logger.String("version", cat.Version()),
		logger.Int("candidates", cat.Len()),
	)

	s.enqueuePresets(ctx, cat.Version())

	return catalogInfo(cat), nil
}

// enqueuePresets queues one warm-up job per preset formation. Drops are
// fine: warm-up is best effort.
func (s *Service) enqueuePresets(ctx context.Context, version string) {
	for _, f := range s.presetFormations {
		job := jobqueue.Job{
			CatalogVersion: version,
			Request: constraint.Request{
				Budget:    s.presetBudget,
				Formation: f,
			},
		}
		if !s.jobQueue.Enqueue(ctx, job) {
			s.logger.Warn(ctx, "warm-up job dropped", logger.String("formation", f.String()))
		}
	}
}

// Catalog describes the active snapshot.
func (s *Service) Catalog(_ context.Context) api.CatalogInfo {
	snap := s.current()
	if snap == nil {
		return api.CatalogInfo{}
	}
	return catalogInfo(snap.catalog)
}

func catalogInfo(cat *model.Catalog) api.CatalogInfo {
	counts := cat.PositionCounts()
	positions := make(map[string]int, len(counts))
	for i, n := range counts {
		positions[model.Position(i).String()] = n
	}
	return api.CatalogInfo{
		Version:    cat.Version(),
		Candidates: cat.Len(),
		Groups:     len(cat.Groups()),
		Positions:  positions,
	}
}

// TopN returns the best n candidates by projected value.
func (s *Service) TopN(ctx context.Context, n int) ([]api.Entry, error) {
	snap := s.current()
	if snap == nil {
		return nil, fmt.Errorf("no catalog loaded")
	}
	return snap.index.TopN(ctx, n)
}

// Rank returns the value rank for a candidate id.
func (s *Service) Rank(ctx context.Context, candidateID string) (api.Entry, error) {
	snap := s.current()
	if snap == nil {
		return api.Entry{}, fmt.Errorf("no catalog loaded")
	}
	return snap.index.Rank(ctx, candidateID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"cacheSize":   s.cacheSize,
		"defaultMode": s.defaultMode.String(),
	}

	if s.started {
		stats["queueLength"] = s.jobQueue.Len(context.Background())
		stats["cachedResults"] = s.resultCache.Len()
		if s.snap != nil {
			stats["catalogVersion"] = s.snap.catalog.Version()
			stats["catalogSize"] = s.snap.catalog.Len()
		}
	}

	return stats
}
