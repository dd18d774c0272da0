// Package scheduler runs the jobs of one invocation.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"slices"
	"time"

	"github.com/GrinlexGH/deps/internal/core/domain"
	"github.com/GrinlexGH/deps/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Options configures a single run.
type Options struct {
	Settings    *domain.Settings
	Mode        domain.ApplyMode
	RunID       string
	ToolVersion string
}

// Scheduler dispatches jobs over lanes of non-overlapping install roots.
type Scheduler struct {
	builder   ports.ProjectBuilder
	installer ports.FileInstaller
	revisions ports.RevisionReader
	store     ports.CacheStore
	tracer    ports.Tracer
	metrics   ports.MetricsRecorder
	logger    ports.Logger
}

// NewScheduler creates a new Scheduler with the given dependencies.
func NewScheduler(
	builder ports.ProjectBuilder,
	installer ports.FileInstaller,
	revisions ports.RevisionReader,
	store ports.CacheStore,
	tracer ports.Tracer,
	metrics ports.MetricsRecorder,
	logger ports.Logger,
) *Scheduler {
	return &Scheduler{
		builder:   builder,
		installer: installer,
		revisions: revisions,
		store:     store,
		tracer:    tracer,
		metrics:   metrics,
		logger:    logger,
	}
}

// Run executes every job of the registry and returns their results in declaration order.
// A failing job does not stop the others; the returned error joins all job failures.
func (s *Scheduler) Run(ctx context.Context, registry *domain.Registry, opts Options) (domain.RunReport, error) {
	state := s.newRunState(ctx, registry, opts)

	names := make([]string, len(state.jobs))
	for i := range state.jobs {
		names[i] = state.jobs[i].Name()
	}
	s.tracer.EmitPlan(ctx, names)

	// Phase 1: read revisions and cache records of all CMake jobs up front.
	hydrateCtx, span := s.tracer.Start(ctx, "Hydrating cache keys")
	state.hydrate(hydrateCtx)
	span.End()

	// Phase 2: plan every file job so destinations resolve across each lane.
	planCtx, span := s.tracer.Start(ctx, "Planning installs")
	state.planFiles(planCtx)
	span.End()

	state.runExecutionLoop()

	report := domain.RunReport{RunID: opts.RunID, Mode: opts.Mode, Results: state.results}
	return report, report.Err()
}

// cacheKey is the hydrated cache state of one CMake job.
type cacheKey struct {
	revision    string
	fingerprint string
	record      *domain.CacheRecord
	revErr      error
	getErr      error
}

// filePlan is the resolved install plan of one header-only or manual job.
type filePlan struct {
	plan domain.InstallPlan
	err  error
}

type result struct {
	index int
	res   domain.JobResult
}

type schedulerRunState struct {
	ctx         context.Context
	s           *Scheduler
	opts        Options
	settings    *domain.Settings
	jobs        []domain.Job
	keys        []cacheKey
	plans       []filePlan
	lanes       [][]int
	ready       []int
	started     []bool
	results     []domain.JobResult
	resultsCh   chan result
	active      int
	parallelism int
}

func (s *Scheduler) newRunState(ctx context.Context, registry *domain.Registry, opts Options) *schedulerRunState {
	jobs := registry.Jobs()
	lanes := registry.Lanes(opts.Settings)

	parallelism := opts.Settings.Jobs
	if parallelism < 1 {
		parallelism = 1
	}

	ready := make([]int, 0, len(lanes))
	for _, lane := range lanes {
		ready = append(ready, lane[0])
	}

	return &schedulerRunState{
		ctx:         ctx,
		s:           s,
		opts:        opts,
		settings:    opts.Settings,
		jobs:        jobs,
		keys:        make([]cacheKey, len(jobs)),
		plans:       make([]filePlan, len(jobs)),
		lanes:       lanes,
		ready:       ready,
		started:     make([]bool, len(jobs)),
		results:     make([]domain.JobResult, len(jobs)),
		resultsCh:   make(chan result, parallelism),
		parallelism: parallelism,
	}
}

// hydrate computes the fingerprint and loads the record of every CMake job concurrently.
// Failures are kept per job and handled when the job runs.
func (state *schedulerRunState) hydrate(ctx context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i := range state.jobs {
		job := &state.jobs[i]
		if job.Kind != domain.KindCMake {
			continue
		}
		g.Go(func() error {
			state.keys[i] = state.s.readCacheKey(ctx, job, state.settings)
			return nil
		})
	}

	_ = g.Wait()
}

// planFiles plans all file jobs concurrently, then drops within each lane the
// actions a later job overrides.
func (state *schedulerRunState) planFiles(ctx context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i := range state.jobs {
		job := &state.jobs[i]
		if job.Kind == domain.KindCMake {
			continue
		}
		if _, err := os.Stat(state.settings.SourceDir(job)); err != nil {
			continue
		}
		g.Go(func() error {
			plan, err := state.s.installer.Plan(ctx, job, state.settings)
			state.plans[i] = filePlan{plan: plan, err: err}
			return nil
		})
	}
	_ = g.Wait()

	for _, lane := range state.lanes {
		var plans []*domain.InstallPlan
		for _, i := range lane {
			if state.jobs[i].Kind != domain.KindCMake && state.plans[i].err == nil {
				plans = append(plans, &state.plans[i].plan)
			}
		}
		if len(plans) < 2 {
			continue
		}
		before := make([]int, len(plans))
		for k, p := range plans {
			before[k] = len(p.Overrides)
		}
		domain.ResolveAcrossPlans(plans)
		for k, p := range plans {
			for _, o := range p.Overrides[before[k]:] {
				state.s.logger.Warn(fmt.Sprintf("%s: %s from %s overrides %s at %s",
					p.Job, o.Winner, o.WinnerJob, o.Dropped, o.Destination))
			}
		}
	}
}

func (s *Scheduler) readCacheKey(ctx context.Context, job *domain.Job, settings *domain.Settings) cacheKey {
	var key cacheKey

	srcDir := settings.SourceDir(job)
	if _, err := os.Stat(srcDir); err != nil {
		return key
	}

	key.revision, key.revErr = s.revisions.Revision(ctx, srcDir, job.BuildFolderPatterns())
	if key.revErr == nil {
		key.fingerprint = domain.ComputeFingerprint(key.revision, job.InstallSubdir, settings.BuildConfiguration(job))
	}

	key.record, key.getErr = s.store.Get(settings.CacheDir, job.ID())
	return key
}

func (state *schedulerRunState) runExecutionLoop() {
	for !state.isDone() {
		state.schedule()

		// Nothing runs after cancellation; the remaining ready jobs are reported below.
		if state.active == 0 {
			break
		}

		// Running jobs observe the context, so waiting for their results always terminates.
		state.handleResult(<-state.resultsCh)
	}

	state.cancelUnstarted()
}

func (state *schedulerRunState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

func (state *schedulerRunState) schedule() {
	for len(state.ready) > 0 && state.active < state.parallelism && state.ctx.Err() == nil {
		idx := state.ready[0]
		state.ready = state.ready[1:]

		state.active++
		state.started[idx] = true
		go state.executeJob(idx)
	}
}

// cancelUnstarted reports every job that never ran as canceled.
func (state *schedulerRunState) cancelUnstarted() {
	for i := range state.jobs {
		if state.started[i] {
			continue
		}
		job := &state.jobs[i]
		err := state.ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		state.results[i] = domain.JobResult{
			Job:    *job,
			Status: domain.StatusCanceled,
			Err:    domain.NewJobError(job, domain.ClassCanceled, err),
		}
	}
}

func (state *schedulerRunState) executeJob(idx int) {
	job := &state.jobs[idx]

	// The span is ended before the result is sent so renderers see the
	// completion before the coordinator moves on.
	res := func() domain.JobResult {
		ctx, span := state.s.tracer.Start(state.ctx, job.Name(), ports.WithJobKind(job.Kind.String()))
		defer span.End()

		start := time.Now()
		res := state.runJob(ctx, span, idx)
		res.Job = *job
		res.Duration = time.Since(start)

		if res.Err != nil {
			span.RecordError(res.Err)
		}
		span.SetAttribute("deps.status", res.Status.String())
		return res
	}()

	state.resultsCh <- result{index: idx, res: res}
}

func (state *schedulerRunState) runJob(ctx context.Context, span ports.Span, idx int) domain.JobResult {
	job := &state.jobs[idx]

	srcDir := state.settings.SourceDir(job)
	if _, err := os.Stat(srcDir); err != nil {
		if state.settings.Strict {
			err = zerr.With(domain.ErrSourceMissing, "path", srcDir)
			return state.fail(job, domain.ClassSource, err)
		}
		state.s.logger.Warn(fmt.Sprintf("%s: source directory %s not found, skipping", job.Name(), srcDir))
		return domain.JobResult{Status: domain.StatusSkipped}
	}

	if job.Kind == domain.KindCMake {
		return state.runCMake(ctx, span, idx)
	}
	return state.runFiles(ctx, idx)
}

func (state *schedulerRunState) runCMake(ctx context.Context, span ports.Span, idx int) domain.JobResult {
	job := &state.jobs[idx]
	key := state.keys[idx]

	if key.revErr != nil {
		state.s.logger.Warn(fmt.Sprintf("%s: cannot read source revision, building without cache: %v", job.Name(), key.revErr))
	}
	if key.getErr != nil {
		jobErr := domain.NewJobError(job, domain.ClassCache, key.getErr)
		state.s.logger.Warn(fmt.Sprintf("%v, rebuilding", jobErr))
	}

	if state.isUpToDate(job, key) {
		span.SetAttribute("deps.cached", true)
		state.s.metrics.ObserveCache(true)
		return domain.JobResult{Status: domain.StatusUpToDate, Fingerprint: key.fingerprint}
	}
	state.s.metrics.ObserveCache(false)

	if state.opts.Mode != domain.ModeApply {
		return domain.JobResult{Status: domain.StatusOutdated, Fingerprint: key.fingerprint}
	}

	if err := state.s.builder.Build(ctx, job, state.settings, span); err != nil {
		if ctx.Err() != nil {
			return state.fail(job, domain.ClassCanceled, err)
		}
		class := domain.ClassBuild
		if errors.Is(err, domain.ErrInstallPrefixWipeFailed) {
			class = domain.ClassInstall
		}
		return state.fail(job, class, err)
	}

	res := domain.JobResult{Status: domain.StatusBuilt, Fingerprint: key.fingerprint}
	if key.revErr == nil {
		rec := domain.NewCacheRecord(job.ID(), key.fingerprint, key.revision, state.opts.ToolVersion, time.Now())
		res.Record = &rec
	}
	return res
}

// isUpToDate reports whether the cache record proves the job's current build is installed.
func (state *schedulerRunState) isUpToDate(job *domain.Job, key cacheKey) bool {
	if state.settings.NoCache || key.revErr != nil || key.getErr != nil {
		return false
	}
	if !key.record.Matches(key.fingerprint) {
		return false
	}
	entries, err := os.ReadDir(state.settings.InstallRoot(job))
	return err == nil && len(entries) > 0
}

func (state *schedulerRunState) runFiles(ctx context.Context, idx int) domain.JobResult {
	job := &state.jobs[idx]
	planned := state.plans[idx]
	if planned.err != nil {
		return state.fail(job, domain.ClassPattern, planned.err)
	}

	report, err := state.s.installer.Apply(ctx, planned.plan, state.opts.Mode)
	state.s.metrics.ObserveFiles(job.Kind.String(), report.Changes())
	if err != nil {
		if ctx.Err() != nil {
			return state.fail(job, domain.ClassCanceled, err)
		}
		res := state.fail(job, domain.ClassInstall, err)
		res.Install = report
		return res
	}

	res := domain.JobResult{Status: domain.StatusUpToDate, Install: report}
	if report.Changes() > 0 {
		res.Status = domain.StatusInstalled
		if state.opts.Mode != domain.ModeApply {
			res.Status = domain.StatusOutdated
		}
	}
	return res
}

func (state *schedulerRunState) fail(job *domain.Job, class domain.ErrorClass, err error) domain.JobResult {
	status := domain.StatusFailed
	if class == domain.ClassCanceled {
		status = domain.StatusCanceled
	}
	return domain.JobResult{Status: status, Err: domain.NewJobError(job, class, err)}
}

// handleResult runs on the coordinating goroutine only, so cache writes never race.
func (state *schedulerRunState) handleResult(r result) {
	state.active--

	res := r.res
	if res.Record != nil && state.opts.Mode == domain.ModeApply {
		if err := state.s.store.Put(state.settings.CacheDir, *res.Record); err != nil {
			jobErr := domain.NewJobError(&res.Job, domain.ClassCache, err)
			state.s.logger.Warn(fmt.Sprintf("%v, the next run will rebuild", jobErr))
		}
	}
	state.results[r.index] = res
	state.s.metrics.ObserveJob(res.Job.Kind.String(), res.Status.String(), res.Duration)

	if next, ok := state.nextInLane(r.index); ok {
		state.ready = append(state.ready, next)
		slices.Sort(state.ready)
	}
}

func (state *schedulerRunState) nextInLane(idx int) (int, bool) {
	for _, lane := range state.lanes {
		for pos, i := range lane {
			if i != idx {
				continue
			}
			if pos+1 < len(lane) {
				return lane[pos+1], true
			}
			return 0, false
		}
	}
	return 0, false
}
