package fs

import (
	"context"

	"github.com/GrinlexGH/deps/internal/adapters/logger"
	"github.com/GrinlexGH/deps/internal/core/ports"
	"github.com/grindlemire/graft"
)

const (
	// WalkerNodeID is the unique identifier for the walker Graft node.
	WalkerNodeID graft.ID = "adapter.fs.walker"
	// HasherNodeID is the unique identifier for the hasher Graft node.
	HasherNodeID graft.ID = "adapter.fs.hasher"
	// MatcherNodeID is the unique identifier for the glob matcher Graft node.
	MatcherNodeID graft.ID = "adapter.fs.matcher"
	// InstallerNodeID is the unique identifier for the file installer Graft node.
	InstallerNodeID graft.ID = "adapter.fs.installer"
)

func init() {
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})

	graft.Register(graft.Node[*Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Hasher, error) {
			return NewHasher(), nil
		},
	})

	graft.Register(graft.Node[ports.GlobMatcher]{
		ID:        MatcherNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{WalkerNodeID},
		Run: func(ctx context.Context) (ports.GlobMatcher, error) {
			walker, err := graft.Dep[*Walker](ctx)
			if err != nil {
				return nil, err
			}
			return NewMatcher(walker), nil
		},
	})

	graft.Register(graft.Node[ports.FileInstaller]{
		ID:        InstallerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{MatcherNodeID, HasherNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.FileInstaller, error) {
			matcher, err := graft.Dep[ports.GlobMatcher](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[*Hasher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewInstaller(matcher, hasher, log), nil
		},
	})
}
