package linear

import (
	"context"

	"github.com/GrinlexGH/deps/internal/adapters/detector"
	"github.com/GrinlexGH/deps/internal/core/ports"
	"github.com/GrinlexGH/deps/internal/ui/output"
	"github.com/grindlemire/graft"
	"github.com/muesli/termenv"
)

// NodeID is the unique identifier for the renderer Graft node.
const NodeID graft.ID = "adapter.renderer"

func init() {
	graft.Register(graft.Node[ports.Renderer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{detector.NodeID},
		Run: func(ctx context.Context) (ports.Renderer, error) {
			mode, err := graft.Dep[detector.OutputMode](ctx)
			if err != nil {
				return nil, err
			}
			profile := termenv.Ascii
			if mode == detector.ModeColor {
				profile = output.ColorProfileANSI()
			}
			return NewRenderer(nil, nil, profile), nil
		},
	})
}
