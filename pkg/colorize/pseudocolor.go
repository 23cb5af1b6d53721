package colorize

import (
	"encoding/binary"
	"math"
)

const lookupTableSize = 1024

// Depth range visualised by the pseudo colour ramp, in meters.
const (
	DepthMinMeters float32 = 0.5
	DepthMaxMeters float32 = 4.0
)

var (
	colorLookupTable    = NewLookupTable(lookupTableSize, pseudoColorEntry)
	infraredLookupTable = NewLookupTable(lookupTableSize, infraredRampEntry)
)

func pseudoColorEntry(index, size int) ColorBGRA {
	return ColorRampInterpolation(float32(index) / float32(size))
}

// infraredRampEntry compresses the ramp towards bright values so small
// changes in dim infrared still change colour.
func infraredRampEntry(index, size int) ColorBGRA {
	value := float32(index) / float32(size)
	alpha := float32(math.Pow(float64(1-value), 12))
	return ColorRampInterpolation(alpha)
}

func PseudoColor(value float32) ColorBGRA {
	return colorLookupTable.GetValue(value)
}

func InfraredColor(value float32) ColorBGRA {
	return infraredLookupTable.GetValue(value)
}

// ScanlineFunc converts width input pixels from in into Bgra8 pixels in out.
type ScanlineFunc func(width int, in, out []byte)

// DepthScanline returns a ScanlineFunc for 16-bit depth rows scaled by
// depthScale meters per unit. A zero sample means no depth and becomes a
// transparent pixel.
func DepthScanline(depthScale float32) ScanlineFunc {
	const oneMin = 1 / DepthMinMeters
	const span = 1/DepthMaxMeters - oneMin

	return func(width int, in, out []byte) {
		for x := 0; x < width; x++ {
			d := binary.LittleEndian.Uint16(in[x*2:])
			if d == 0 {
				Transparent.put(out[x*4:])
				continue
			}
			depth := float32(d) * depthScale
			alpha := (1/depth - oneMin) / span
			PseudoColor(alpha*alpha).put(out[x*4:])
		}
	}
}

func Infrared16Scanline(width int, in, out []byte) {
	for x := 0; x < width; x++ {
		v := binary.LittleEndian.Uint16(in[x*2:])
		InfraredColor(float32(v) / math.MaxUint16).put(out[x*4:])
	}
}

func Infrared8Scanline(width int, in, out []byte) {
	for x := 0; x < width; x++ {
		InfraredColor(float32(in[x]) / math.MaxUint8).put(out[x*4:])
	}
}
