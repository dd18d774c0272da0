package cas

import (
	"context"

	"github.com/grindlemire/graft"
)

const (
	// NodeID is the unique identifier for the file-per-job store Graft node.
	NodeID graft.ID = "adapter.cache_store"
	// IndexNodeID is the unique identifier for the sqlite index store Graft node.
	IndexNodeID graft.ID = "adapter.cache_index"
)

func init() {
	graft.Register(graft.Node[*Store]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Store, error) {
			return NewStore(), nil
		},
	})

	graft.Register(graft.Node[*IndexStore]{
		ID:        IndexNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*IndexStore, error) {
			return NewIndexStore(), nil
		},
	})
}
