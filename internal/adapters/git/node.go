package git

import (
	"context"

	"github.com/GrinlexGH/deps/internal/adapters/fs"
	"github.com/GrinlexGH/deps/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the revision reader Graft node.
const NodeID graft.ID = "adapter.revision"

func init() {
	graft.Register(graft.Node[ports.RevisionReader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.WalkerNodeID, fs.HasherNodeID},
		Run: func(ctx context.Context) (ports.RevisionReader, error) {
			walker, err := graft.Dep[*fs.Walker](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[*fs.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			return NewReader(walker, hasher), nil
		},
	})
}
