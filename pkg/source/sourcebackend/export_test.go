package sourcebackend

import (
	"context"

	"github.com/tauraamui/dragoneye/pkg/frame"
	"github.com/tauraamui/dragoneye/pkg/source"
)

// Emit runs one generation step on a reader created by this package.
func Emit(r source.Reader) {
	r.(*reader).emit(context.Background())
}

func Generate(r source.Reader, seq uint64) *frame.Frame {
	return r.(*reader).generate(seq)
}
