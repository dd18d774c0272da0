package app

import (
	"context"
	"os"

	"github.com/GrinlexGH/deps/internal/adapters/cas"       //nolint:depguard // Wired in app layer
	"github.com/GrinlexGH/deps/internal/adapters/cmake"     //nolint:depguard // Wired in app layer
	"github.com/GrinlexGH/deps/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"github.com/GrinlexGH/deps/internal/adapters/detector"  //nolint:depguard // Wired in app layer
	"github.com/GrinlexGH/deps/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"github.com/GrinlexGH/deps/internal/adapters/git"       //nolint:depguard // Wired in app layer
	"github.com/GrinlexGH/deps/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"github.com/GrinlexGH/deps/internal/adapters/metrics"   //nolint:depguard // Wired in app layer
	"github.com/GrinlexGH/deps/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"github.com/GrinlexGH/deps/internal/core/ports"
	"github.com/GrinlexGH/deps/internal/ui/output"
	"github.com/grindlemire/graft"
	"github.com/muesli/termenv"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			cmake.NodeID,
			fs.InstallerNodeID,
			git.NodeID,
			cas.NodeID,
			cas.IndexNodeID,
			telemetry.TracerNodeID,
			metrics.NodeID,
			logger.NodeID,
			detector.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			telemetry.ProviderNodeID,
			cas.IndexNodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.JobsFileLoader](ctx)
	if err != nil {
		return nil, err
	}
	builder, err := graft.Dep[ports.ProjectBuilder](ctx)
	if err != nil {
		return nil, err
	}
	installer, err := graft.Dep[ports.FileInstaller](ctx)
	if err != nil {
		return nil, err
	}
	revisions, err := graft.Dep[ports.RevisionReader](ctx)
	if err != nil {
		return nil, err
	}
	fileStore, err := graft.Dep[*cas.Store](ctx)
	if err != nil {
		return nil, err
	}
	indexStore, err := graft.Dep[*cas.IndexStore](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}
	recorder, err := graft.Dep[ports.MetricsRecorder](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	mode, err := graft.Dep[detector.OutputMode](ctx)
	if err != nil {
		return nil, err
	}

	profile := termenv.Ascii
	if mode == detector.ModeColor {
		profile = output.ColorProfileANSI()
	}

	a := New(
		loader,
		builder,
		installer,
		revisions,
		Stores{File: fileStore, Index: indexStore},
		tracer,
		recorder,
		log,
	)
	return a.WithOutput(os.Stdout, profile), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	a, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	provider, err := graft.Dep[*telemetry.Provider](ctx)
	if err != nil {
		return nil, err
	}

	indexStore, err := graft.Dep[*cas.IndexStore](ctx)
	if err != nil {
		return nil, err
	}

	return NewComponents(a, log,
		provider.Shutdown,
		func(context.Context) error { return indexStore.Close() },
	), nil
}
