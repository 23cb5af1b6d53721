package colorize

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorBGRA is one 8-bit pixel in B, G, R, A byte order.
type ColorBGRA struct {
	B, G, R, A uint8
}

// Transparent marks pixels with no valid sample.
var Transparent = ColorBGRA{}

func (c ColorBGRA) put(dst []byte) {
	dst[0], dst[1], dst[2], dst[3] = c.B, c.G, c.R, c.A
}

func (c ColorBGRA) String() string {
	return fmt.Sprintf("#%02x%02x%02x/%02x", c.R, c.G, c.B, c.A)
}

// rampHex runs from near (dark red) to far (dark blue).
var rampHex = [...]string{
	"#7f0000",
	"#ff0000",
	"#ff7f00",
	"#ffff00",
	"#7fff7f",
	"#00ffff",
	"#007fff",
	"#0000ff",
	"#00007f",
}

var colorRamp = func() [len(rampHex)]ColorBGRA {
	var ramp [len(rampHex)]ColorBGRA
	for i, h := range rampHex {
		c, err := colorful.Hex(h)
		if err != nil {
			panic(fmt.Sprintf("bad ramp colour %q: %v", h, err))
		}
		r, g, b := c.RGB255()
		ramp[i] = ColorBGRA{B: b, G: g, R: r, A: 0xFF}
	}
	return ramp
}()

// RampAnchor returns the i-th fixed colour of the ramp.
func RampAnchor(i int) ColorBGRA {
	return colorRamp[i]
}

// RampAnchors is the number of fixed colours along the ramp.
const RampAnchors = len(rampHex)

// ColorRampInterpolation maps value in [0, 1] onto the ramp by linearly
// blending the two surrounding anchors. Channel arithmetic truncates.
func ColorRampInterpolation(value float32) ColorBGRA {
	const rampSteps = RampAnchors - 1

	value = clamp01(value)
	scaled := value * float32(rampSteps)
	index := int(scaled)
	if index > rampSteps-1 {
		index = rampSteps - 1
	}
	prev := colorRamp[index]
	next := colorRamp[index+1]

	alpha := uint32((scaled - float32(index)) * 255)
	if alpha > 255 {
		alpha = 255
	}
	beta := 255 - alpha
	return ColorBGRA{
		B: uint8((uint32(prev.B)*beta + uint32(next.B)*alpha) / 255),
		G: uint8((uint32(prev.G)*beta + uint32(next.G)*alpha) / 255),
		R: uint8((uint32(prev.R)*beta + uint32(next.R)*alpha) / 255),
		A: uint8((uint32(prev.A)*beta + uint32(next.A)*alpha) / 255),
	}
}

func clamp01(v float32) float32 {
	switch {
	case v > 1:
		return 1
	case v >= 0:
		return v
	default:
		// negative or NaN
		return 0
	}
}
