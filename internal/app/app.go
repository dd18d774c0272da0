// Package app implements the application layer for deps.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/GrinlexGH/deps/internal/build"
	"github.com/GrinlexGH/deps/internal/core/domain"
	"github.com/GrinlexGH/deps/internal/core/ports"
	"github.com/GrinlexGH/deps/internal/engine/scheduler"
	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"go.trai.ch/zerr"
)

// Stores holds one cache store per backend.
type Stores struct {
	File  ports.CacheStore
	Index ports.CacheStore
}

// App represents the main application logic.
type App struct {
	loader    ports.JobsFileLoader
	builder   ports.ProjectBuilder
	installer ports.FileInstaller
	revisions ports.RevisionReader
	stores    Stores
	tracer    ports.Tracer
	metrics   ports.MetricsRecorder
	logger    ports.Logger

	out     io.Writer
	profile termenv.Profile
}

// New creates a new App instance.
func New(
	loader ports.JobsFileLoader,
	builder ports.ProjectBuilder,
	installer ports.FileInstaller,
	revisions ports.RevisionReader,
	stores Stores,
	tracer ports.Tracer,
	metrics ports.MetricsRecorder,
	log ports.Logger,
) *App {
	return &App{
		loader:    loader,
		builder:   builder,
		installer: installer,
		revisions: revisions,
		stores:    stores,
		tracer:    tracer,
		metrics:   metrics,
		logger:    log,
		out:       os.Stdout,
		profile:   termenv.Ascii,
	}
}

// WithOutput sets where the run summary is written and how it is colored.
func (a *App) WithOutput(w io.Writer, profile termenv.Profile) *App {
	a.out = w
	a.profile = profile
	return a
}

// Request is a parsed invocation.
type Request struct {
	// Base holds the defaults with environment values and flag-only options applied.
	Base domain.Settings
	// Flags holds the settings given explicitly on the command line.
	Flags domain.SettingsOverrides
	// JobsFile is an optional declarative jobs file; its jobs run after Jobs.
	JobsFile string
	// Jobs are the jobs from the argument list, in order.
	Jobs []domain.Job
	// WorkDir is the directory relative paths resolve against.
	WorkDir string
	// RunID identifies the run; a random one is generated when empty.
	RunID string
}

// Install builds and installs every job.
func (a *App) Install(ctx context.Context, req Request) (domain.RunReport, error) {
	return a.run(ctx, req, domain.ModeApply)
}

// Plan reports what Install would do without changing anything.
func (a *App) Plan(ctx context.Context, req Request) (domain.RunReport, error) {
	return a.run(ctx, req, domain.ModeDryRun)
}

// Verify checks that the install tree matches the jobs.
// Any pending work is reported as ErrDriftDetected.
func (a *App) Verify(ctx context.Context, req Request) (domain.RunReport, error) {
	report, err := a.run(ctx, req, domain.ModeVerify)
	if err != nil {
		return report, err
	}
	if n := report.Count(domain.StatusOutdated); n > 0 {
		return report, zerr.With(domain.ErrDriftDetected, "outdated", n)
	}
	return report, nil
}

func (a *App) run(ctx context.Context, req Request, mode domain.ApplyMode) (domain.RunReport, error) {
	registry, settings, err := a.prepare(req)
	if err != nil {
		return domain.RunReport{}, err
	}

	if settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, settings.Timeout)
		defer cancel()
	}

	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	a.logger.Debug(fmt.Sprintf("run %s: %d job(s) in %s mode, install dir %s",
		runID, registry.Len(), mode, settings.InstallDir))

	sched := scheduler.NewScheduler(
		a.builder,
		a.installer,
		a.revisions,
		a.storeFor(settings.CacheBackend),
		a.tracer,
		a.metrics,
		a.logger,
	)

	start := time.Now()
	report, runErr := sched.Run(ctx, registry, scheduler.Options{
		Settings:    &settings,
		Mode:        mode,
		RunID:       runID,
		ToolVersion: build.Version,
	})
	a.metrics.ObserveRun(runID, mode.String(), time.Since(start))

	if settings.MetricsFile != "" {
		if err := a.metrics.WriteTo(settings.MetricsFile); err != nil {
			a.logger.Warn(err.Error())
		}
	}

	writeSummary(a.out, a.profile, report)
	for _, res := range report.Failed() {
		a.logger.Error(res.Err)
	}
	return report, runErr
}

// prepare resolves settings with precedence flag > jobs file > environment > default
// and builds the validated registry.
func (a *App) prepare(req Request) (*domain.Registry, domain.Settings, error) {
	settings, fileJobs, err := a.resolveSettings(req)
	if err != nil {
		return nil, settings, err
	}

	registry := domain.NewRegistry()
	for _, job := range append(append([]domain.Job{}, req.Jobs...), fileJobs...) {
		if err := registry.Add(job); err != nil {
			return nil, settings, errors.Join(domain.ErrConfiguration, err)
		}
	}
	if err := registry.Validate(&settings); err != nil {
		return nil, settings, errors.Join(domain.ErrConfiguration, err)
	}
	return registry, settings, nil
}

func (a *App) resolveSettings(req Request) (domain.Settings, []domain.Job, error) {
	settings := req.Base

	var fileJobs []domain.Job
	if req.JobsFile != "" {
		file, err := a.loader.Load(req.JobsFile)
		if err != nil {
			return settings, nil, errors.Join(domain.ErrConfiguration, err)
		}
		file.Settings.Apply(&settings)
		fileJobs = file.Jobs
	}
	req.Flags.Apply(&settings)

	settings = settings.Resolve(req.WorkDir)
	if err := settings.Validate(); err != nil {
		return settings, nil, errors.Join(domain.ErrConfiguration, err)
	}
	return settings, fileJobs, nil
}

func (a *App) storeFor(backend domain.CacheBackend) ports.CacheStore {
	if backend == domain.CacheBackendSQLite {
		return a.stores.Index
	}
	return a.stores.File
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	// All also removes the install directory.
	All bool
}

// Clean removes the cache store and, with All, the install tree.
func (a *App) Clean(_ context.Context, req Request, options CleanOptions) error {
	settings, _, err := a.resolveSettings(req)
	if err != nil {
		return err
	}

	var errs error
	remove := func(path, name string) {
		a.logger.Info(fmt.Sprintf("removing %s %s", name, path))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, domain.ErrCleanFailed.Error()), "path", path))
		}
	}

	remove(settings.CacheDir, "cache")
	if options.All {
		remove(settings.InstallDir, "install dir")
	}
	return errs
}
