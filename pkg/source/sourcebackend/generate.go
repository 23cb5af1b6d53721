package sourcebackend

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"
	"math"
	"time"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/tauraamui/dragoneye/pkg/frame"
	"github.com/tauraamui/dragoneye/pkg/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// Depth scene, in meters.
const (
	nearPlaneMeters = 0.4
	farPlaneMeters  = 4.5
	objectMeters    = 0.7
)

func newGenerator(g *syntheticGroup, sensor sensorDef) generator {
	switch sensor.info.Kind {
	case frame.Color:
		return colorGenerator(g, sensor)
	case frame.Depth:
		return depthGenerator(g, sensor)
	default:
		return infraredGenerator(sensor)
	}
}

// intrinsicsFor models a camera with a horizontal field of view of roughly
// 64 degrees and its principal point at the image centre.
func intrinsicsFor(width, height int) *frame.Intrinsics {
	return &frame.Intrinsics{
		Width:  width,
		Height: height,
		Fx:     0.8 * float64(width),
		Fy:     0.8 * float64(width),
		Ppx:    float64(width) / 2,
		Ppy:    float64(height) / 2,
	}
}

func colorGenerator(g *syntheticGroup, sensor sensorDef) generator {
	w, h := sensor.config.Width, sensor.config.Height
	intrinsics := intrinsicsFor(w, h)
	format, alpha := colorFormat(sensor.config.Format)

	var base *image.RGBA
	return func(seq uint64) *frame.Frame {
		if base == nil {
			base = renderBaseFrameCanvas(w, h)
			if err := drawText(base, w/40, h/6, float64(h)/12, g.group.DisplayName); err != nil {
				log.Error("Unable to draw label onto synthetic frame: %v", err)
			}
		}

		bmp := frame.NewBitmap(format, w, h)
		bmp.Alpha = alpha
		barX := int(seq*8) % w
		for y := 0; y < h; y++ {
			src := base.Pix[y*base.Stride : y*base.Stride+w*4]
			dst := bmp.Row(y)
			for x := 0; x < w; x++ {
				r, gr, b := src[x*4+0], src[x*4+1], src[x*4+2]
				if x >= barX && x < barX+w/64+1 {
					r, gr, b = 0xFF, 0xFF, 0xFF
				}
				putColor(format, dst, x, r, gr, b)
			}
		}

		return &frame.Frame{
			Kind:             frame.Color,
			Seq:              seq,
			Captured:         time.Now(),
			Bitmap:           bmp,
			Intrinsics:       intrinsics,
			CoordinateSystem: g.colorSystem,
		}
	}
}

func colorFormat(name string) (frame.PixelFormat, frame.AlphaMode) {
	switch name {
	case "rgba8":
		return frame.Rgba8, frame.Straight
	case "gray8":
		return frame.Gray8, frame.Ignore
	default:
		return frame.Bgra8, frame.Premultiplied
	}
}

func putColor(format frame.PixelFormat, row []byte, x int, r, g, b uint8) {
	switch format {
	case frame.Rgba8:
		row[x*4+0], row[x*4+1], row[x*4+2], row[x*4+3] = r, g, b, 0xFF
	case frame.Gray8:
		row[x] = uint8((299*uint32(r) + 587*uint32(g) + 114*uint32(b)) / 1000)
	default:
		row[x*4+0], row[x*4+1], row[x*4+2], row[x*4+3] = b, g, r, 0xFF
	}
}

// depthGenerator renders a floor plane tilting away from the camera with a
// disc sweeping across it. The leftmost columns carry no depth data.
func depthGenerator(g *syntheticGroup, sensor sensorDef) generator {
	w, h := sensor.config.Width, sensor.config.Height
	scale := sensor.config.DepthScale
	if scale <= 0 {
		scale = 0.001
	}
	intrinsics := intrinsicsFor(w, h)
	blind := w / 16

	return func(seq uint64) *frame.Frame {
		bmp := frame.NewBitmap(frame.Gray16, w, h)
		cx := float64(int(seq*4) % w)
		cy := float64(h) / 2
		radius := float64(h) / 5

		for y := 0; y < h; y++ {
			row := bmp.Row(y)
			for x := blind; x < w; x++ {
				meters := nearPlaneMeters + (farPlaneMeters-nearPlaneMeters)*float64(x)/float64(w-1)
				if math.Hypot(float64(x)-cx, float64(y)-cy) < radius {
					meters = objectMeters
				}
				binary.LittleEndian.PutUint16(row[x*2:], uint16(math.Min(meters/scale, math.MaxUint16)))
			}
		}

		return &frame.Frame{
			Kind:       frame.Depth,
			Seq:        seq,
			Captured:   time.Now(),
			Bitmap:     bmp,
			DepthScale: scale,
			Intrinsics: intrinsics,
			Mapper: &mapperFactory{
				correlated: g.config.Correlated,
				system:     g.colorSystem,
				depth:      intrinsics,
				samples:    bmp,
				scale:      scale,
			},
		}
	}
}

// infraredGenerator renders a bright spot fading out towards the edges.
func infraredGenerator(sensor sensorDef) generator {
	w, h := sensor.config.Width, sensor.config.Height
	format := frame.Gray16
	if sensor.config.Bits == 8 {
		format = frame.Gray8
	}

	return func(seq uint64) *frame.Frame {
		bmp := frame.NewBitmap(format, w, h)
		cx := float64(w)/2 + float64(w)/4*math.Sin(float64(seq)/15)
		cy := float64(h) / 2
		reach := math.Hypot(float64(w), float64(h)) / 2

		for y := 0; y < h; y++ {
			row := bmp.Row(y)
			for x := 0; x < w; x++ {
				v := 1 - math.Min(math.Hypot(float64(x)-cx, float64(y)-cy)/reach, 1)
				if format == frame.Gray8 {
					row[x] = uint8(v * math.MaxUint8)
					continue
				}
				binary.LittleEndian.PutUint16(row[x*2:], uint16(v*math.MaxUint16))
			}
		}

		return &frame.Frame{
			Kind:     frame.Infrared,
			Seq:      seq,
			Captured: time.Now(),
			Bitmap:   bmp,
		}
	}
}

func renderBaseFrameCanvas(w, h int) *image.RGBA {
	var hw, hh float64 = float64(w / 2), float64(h / 2)
	r := float64(h) / 2
	θ := 2 * math.Pi / 3
	cr := &circle{hw - r*math.Sin(0), hh - r*math.Cos(0), float64(h) * 3 / 4}
	cg := &circle{hw - r*math.Sin(θ), hh - r*math.Cos(θ), float64(h) * 3 / 4}
	cb := &circle{hw - r*math.Sin(-θ), hh - r*math.Cos(-θ), float64(h) * 3 / 4}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			c := color.RGBA{
				cr.Brightness(float64(x), float64(y)),
				cg.Brightness(float64(x), float64(y)),
				cb.Brightness(float64(x), float64(y)),
				255,
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func drawText(canvas draw.Image, x, y int, size float64, text string) error {
	fontFace, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return err
	}
	fontDrawer := &font.Drawer{
		Dst: canvas,
		Src: image.White,
		Face: truetype.NewFace(fontFace, &truetype.Options{
			Size:    size,
			Hinting: font.HintingFull,
		}),
	}
	textBounds, _ := fontDrawer.BoundString(text)
	textHeight := textBounds.Max.Y - textBounds.Min.Y
	fontDrawer.Dot = fixed.Point26_6{
		X: fixed.I(x),
		Y: fixed.I(y) + textHeight/2,
	}
	fontDrawer.DrawString(text)
	return nil
}

type circle struct {
	X, Y, R float64
}

func (c *circle) Brightness(x, y float64) uint8 {
	var dx, dy float64 = c.X - x, c.Y - y
	d := math.Sqrt(dx*dx+dy*dy) / c.R
	if d > 1 {
		return 0
	}
	return 255
}
