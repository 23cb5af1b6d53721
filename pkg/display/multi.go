package display

import (
	"github.com/tauraamui/dragoneye/pkg/frame"
	"go.uber.org/multierr"
)

// Surface is anything a bitmap can be presented to.
type Surface interface {
	Present(*frame.Bitmap) error
}

// Multi fans a bitmap out to every surface. All surfaces are presented to
// even when some fail.
type Multi []Surface

func (m Multi) Present(b *frame.Bitmap) error {
	var err error
	for _, s := range m {
		err = multierr.Append(err, s.Present(b))
	}
	return err
}
