package cmake

import (
	"context"

	"github.com/GrinlexGH/deps/internal/adapters/logger"
	"github.com/GrinlexGH/deps/internal/adapters/shell"
	"github.com/GrinlexGH/deps/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the CMake builder Graft node.
const NodeID graft.ID = "adapter.cmake"

func init() {
	graft.Register(graft.Node[ports.ProjectBuilder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.ProjectBuilder, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewBuilder(executor, log), nil
		},
	})
}
