// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/GrinlexGH/deps/internal/adapters/cas"
	_ "github.com/GrinlexGH/deps/internal/adapters/cmake"
	_ "github.com/GrinlexGH/deps/internal/adapters/config"
	_ "github.com/GrinlexGH/deps/internal/adapters/detector"
	_ "github.com/GrinlexGH/deps/internal/adapters/fs"
	_ "github.com/GrinlexGH/deps/internal/adapters/git"
	_ "github.com/GrinlexGH/deps/internal/adapters/linear"
	_ "github.com/GrinlexGH/deps/internal/adapters/logger"
	_ "github.com/GrinlexGH/deps/internal/adapters/metrics"
	_ "github.com/GrinlexGH/deps/internal/adapters/shell"
	_ "github.com/GrinlexGH/deps/internal/adapters/telemetry"
	// Register app nodes.
	_ "github.com/GrinlexGH/deps/internal/app"
)
