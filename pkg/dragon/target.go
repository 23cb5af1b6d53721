package dragon

import (
	"fmt"

	"github.com/tauraamui/dragoneye/pkg/correlate"
	"github.com/tauraamui/dragoneye/pkg/present"
	"github.com/tauraamui/dragoneye/pkg/render"
)

// target is one rendering destination with its own presentation context.
type target struct {
	context   *present.Context
	presenter *present.Presenter
	renderer  *render.Renderer
}

func newTarget(name string, surface present.Display, correlator *correlate.Correlator) *target {
	ctx := present.NewContext(fmt.Sprintf("%s-presentation", name))
	presenter := present.NewPresenter(name, surface, ctx)
	return &target{
		context:   ctx,
		presenter: presenter,
		renderer:  render.New(name, presenter, correlator),
	}
}
