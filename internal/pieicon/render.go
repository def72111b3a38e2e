package pieicon

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/vector"
)

var (
	white     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	ringGrey  = color.RGBA{R: 158, G: 158, B: 158, A: 255}
	faintGrey = color.NRGBA{R: 158, G: 158, B: 158, A: 13}
)

const (
	dividerWidth = 3
	hatchWidth   = 3
	hatchLines   = 3
	ringWidth    = 5
)

// Render draws the icon on a transparent size x size canvas. Slices start at
// 12 o'clock and run clockwise.
func Render(icon Icon, size int) *image.RGBA {
	c := newCanvas(size)
	if icon.Empty {
		c.drawEmpty()
		return c.img
	}

	n := len(icon.Slices)
	if n == 0 {
		return c.img
	}
	step := 2 * math.Pi / float64(n)
	start := -math.Pi / 2
	for _, s := range icon.Slices {
		end := start + step
		c.fill(s.Color, func(z *vector.Rasterizer) { sector(z, c.cx, c.cy, c.r, start, end) })

		if n > 1 {
			c.fill(white, func(z *vector.Rasterizer) {
				edge := c.r - dividerWidth/2.0
				thickLine(z, c.cx, c.cy, c.cx+edge*math.Cos(start), c.cy+edge*math.Sin(start), dividerWidth)
				thickLine(z, c.cx, c.cy, c.cx+edge*math.Cos(end), c.cy+edge*math.Sin(end), dividerWidth)
				annularSector(z, c.cx, c.cy, c.r-dividerWidth/2.0, c.r, start, end)
			})
		}

		if s.Control {
			spacing := c.r / (hatchLines + 1)
			c.fill(white, func(z *vector.Rasterizer) {
				for i := 1; i <= hatchLines; i++ {
					ri := float64(i) * spacing
					annularSector(z, c.cx, c.cy, ri-hatchWidth/2.0, ri+hatchWidth/2.0, start, end)
				}
			})
		}
		start = end
	}
	return c.img
}

// EncodePNG renders the icon and writes it as PNG.
func EncodePNG(w io.Writer, icon Icon, size int) error {
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	return enc.Encode(w, Render(icon, size))
}

type canvas struct {
	img       *image.RGBA
	z         *vector.Rasterizer
	size      int
	cx, cy, r float64
}

func newCanvas(size int) *canvas {
	half := float64(size) / 2
	return &canvas{
		img:  image.NewRGBA(image.Rect(0, 0, size, size)),
		z:    vector.NewRasterizer(size, size),
		size: size,
		cx:   half,
		cy:   half,
		r:    half,
	}
}

func (c *canvas) fill(col color.Color, path func(z *vector.Rasterizer)) {
	c.z.Reset(c.size, c.size)
	path(c.z)
	c.z.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{})
}

func (c *canvas) drawEmpty() {
	r := c.r - 1
	c.fill(faintGrey, func(z *vector.Rasterizer) { disc(z, c.cx, c.cy, r) })
	// The ring is centred on r but the outer half would fall off the canvas.
	c.fill(ringGrey, func(z *vector.Rasterizer) { ring(z, c.cx, c.cy, r-ringWidth/2.0, c.r) })
	c.fill(ringGrey, func(z *vector.Rasterizer) { disc(z, c.cx, c.cy, float64(c.size)*0.05) })
}

func segments(a0, a1, r float64) int {
	n := int(math.Ceil(math.Abs(a1-a0) * math.Max(r, 1) / 2))
	if n < 4 {
		n = 4
	}
	return n
}

func arc(z *vector.Rasterizer, cx, cy, r, a0, a1 float64, first bool) {
	n := segments(a0, a1, r)
	for i := 0; i <= n; i++ {
		a := a0 + (a1-a0)*float64(i)/float64(n)
		x, y := float32(cx+r*math.Cos(a)), float32(cy+r*math.Sin(a))
		if i == 0 && first {
			z.MoveTo(x, y)
			continue
		}
		z.LineTo(x, y)
	}
}

func sector(z *vector.Rasterizer, cx, cy, r, a0, a1 float64) {
	z.MoveTo(float32(cx), float32(cy))
	arc(z, cx, cy, r, a0, a1, false)
	z.ClosePath()
}

// annularSector is the band between r0 and r1 over [a0, a1]: outer arc
// forward, inner arc back.
func annularSector(z *vector.Rasterizer, cx, cy, r0, r1, a0, a1 float64) {
	if r0 <= 0 {
		sector(z, cx, cy, r1, a0, a1)
		return
	}
	arc(z, cx, cy, r1, a0, a1, true)
	arc(z, cx, cy, r0, a1, a0, false)
	z.ClosePath()
}

func disc(z *vector.Rasterizer, cx, cy, r float64) {
	arc(z, cx, cy, r, 0, 2*math.Pi, true)
	z.ClosePath()
}

// ring relies on the rasterizer's signed coverage: the inner circle is wound
// the other way and cancels the outer one.
func ring(z *vector.Rasterizer, cx, cy, r0, r1 float64) {
	arc(z, cx, cy, r1, 0, 2*math.Pi, true)
	z.ClosePath()
	arc(z, cx, cy, r0, 2*math.Pi, 0, true)
	z.ClosePath()
}

func thickLine(z *vector.Rasterizer, x0, y0, x1, y1, width float64) {
	dx, dy := x1-x0, y1-y0
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	z.MoveTo(float32(x0+nx), float32(y0+ny))
	z.LineTo(float32(x1+nx), float32(y1+ny))
	z.LineTo(float32(x1-nx), float32(y1-ny))
	z.LineTo(float32(x0-nx), float32(y0-ny))
	z.ClosePath()
}
