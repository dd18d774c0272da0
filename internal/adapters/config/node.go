package config

import (
	"context"

	"github.com/GrinlexGH/deps/internal/adapters/logger"
	"github.com/GrinlexGH/deps/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the jobs file loader Graft node.
const NodeID graft.ID = "adapter.config_loader"

func init() {
	graft.Register(graft.Node[ports.JobsFileLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.JobsFileLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})
}
