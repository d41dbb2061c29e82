package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Overlay describes one marker to draw on a frame. Box is the padded
// tracking box; OriginalBox is the unpadded box used for anchor points
// (head and feet positions). When OriginalBox is empty, Box is used.
type Overlay struct {
	Box         image.Rectangle
	OriginalBox image.Rectangle
	Style       Style
	Label       string
	Color       color.RGBA
}

func (o Overlay) anchor() image.Rectangle {
	if o.OriginalBox.Empty() {
		return o.Box
	}
	return o.OriginalBox
}

// Renderer draws markers on video frames. A single renderer is reused
// across frames so animated styles stay phase-coherent.
type Renderer struct {
	frameCount int
}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// DrawAll draws every overlay onto frame, in order.
func (r *Renderer) DrawAll(frame *gocv.Mat, overlays []Overlay) {
	r.frameCount++
	for _, ov := range overlays {
		r.draw(frame, ov)
	}
}

func (r *Renderer) draw(frame *gocv.Mat, ov Overlay) {
	if ov.Box.Empty() || frame.Empty() {
		return
	}
	c := ov.Color
	if c == (color.RGBA{}) {
		c = ov.Style.DefaultColor()
	}

	switch ov.Style {
	case StyleArrow:
		r.drawArrow(frame, ov, c)
	case StyleEllipse:
		r.drawFloorEllipse(frame, ov, c)
	case StyleRectangle:
		r.drawRectangle(frame, ov, c)
	case StyleSpotlight:
		r.drawSpotlight(frame, ov, c)
	case StyleOutline:
		r.drawOutline(frame, ov, c)
	case StyleCrosshair:
		r.drawCrosshair(frame, ov, c)
	}

	if ov.Label != "" {
		r.drawLabel(frame, ov, c)
	}
}

// drawArrow draws a filled downward arrow with a soft glow above the
// subject's head.
func (r *Renderer) drawArrow(frame *gocv.Mat, ov Overlay, c color.RGBA) {
	anchor := ov.anchor()
	centerX := anchor.Min.X + anchor.Dx()/2
	topY := anchor.Min.Y - 60
	if topY < 0 {
		topY = 0
	}

	size := anchor.Dx() * 35 / 100
	if size < 35 {
		size = 35
	}
	shaftW := size / 4
	if shaftW < 8 {
		shaftW = 8
	}
	headW := size * 6 / 10
	if headW < 20 {
		headW = 20
	}
	shaftEndY := topY + size*6/10
	tipY := topY + size

	shaft := []image.Point{
		{X: centerX - shaftW/2, Y: topY},
		{X: centerX + shaftW/2, Y: topY},
		{X: centerX + shaftW/2, Y: shaftEndY},
		{X: centerX - shaftW/2, Y: shaftEndY},
	}
	head := []image.Point{
		{X: centerX - headW/2, Y: shaftEndY},
		{X: centerX + headW/2, Y: shaftEndY},
		{X: centerX, Y: tipY},
	}

	// Glow pass: draw an enlarged arrow on a copy and blend it back.
	glow := frame.Clone()
	defer glow.Close()
	glowHead := []image.Point{
		{X: centerX - headW, Y: shaftEndY - 4},
		{X: centerX + headW, Y: shaftEndY - 4},
		{X: centerX, Y: tipY + 8},
	}
	fillPoly(&glow, glowHead, lighten(c))
	gocv.AddWeighted(glow, 0.25, *frame, 0.75, 0, frame)

	fillPoly(frame, shaft, c)
	fillPoly(frame, head, c)

	outline := darken(c)
	gocv.Line(frame, head[0], head[1], outline, 2)
	gocv.Line(frame, head[1], head[2], outline, 2)
	gocv.Line(frame, head[2], head[0], outline, 2)
}

// drawFloorEllipse draws a flattened broadcast-style hoop at the feet.
func (r *Renderer) drawFloorEllipse(frame *gocv.Mat, ov Overlay, c color.RGBA) {
	anchor := ov.anchor()
	centerX := ov.Box.Min.X + ov.Box.Dx()/2
	feetY := anchor.Max.Y

	radiusX := ov.Box.Dx() * 6 / 10
	if radiusX < 35 {
		radiusX = 35
	}
	radiusY := ov.Box.Dx() * 15 / 100
	if radiusY < 10 {
		radiusY = 10
	}
	center := image.Pt(centerX, feetY-radiusY)
	axes := image.Pt(radiusX, radiusY)

	// Outer glow ring first, then the crisp hoop on top.
	gocv.Ellipse(frame, center, image.Pt(radiusX+4, radiusY+2), 0, 0, 360, lighten(c), 6)
	gocv.Ellipse(frame, center, axes, 0, 0, 360, c, 3)
}

func (r *Renderer) drawRectangle(frame *gocv.Mat, ov Overlay, c color.RGBA) {
	gocv.Rectangle(frame, ov.Box, c, 3)
}

// drawSpotlight blends a bright pool of light onto the floor below the
// subject, with a faint beam widening toward it.
func (r *Renderer) drawSpotlight(frame *gocv.Mat, ov Overlay, c color.RGBA) {
	anchor := ov.anchor()
	centerX := ov.Box.Min.X + ov.Box.Dx()/2
	feetY := anchor.Max.Y

	poolRX := ov.Box.Dx() * 7 / 10
	if poolRX < 40 {
		poolRX = 40
	}
	poolRY := poolRX / 4
	topY := anchor.Min.Y - 40
	if topY < 0 {
		topY = 0
	}

	overlay := frame.Clone()
	defer overlay.Close()

	beam := []image.Point{
		{X: centerX - poolRX/4, Y: topY},
		{X: centerX + poolRX/4, Y: topY},
		{X: centerX + poolRX, Y: feetY},
		{X: centerX - poolRX, Y: feetY},
	}
	fillPoly(&overlay, beam, lighten(c))
	gocv.Ellipse(&overlay, image.Pt(centerX, feetY), image.Pt(poolRX, poolRY), 0, 0, 360, c, -1)
	gocv.AddWeighted(overlay, 0.35, *frame, 0.65, 0, frame)

	gocv.Ellipse(frame, image.Pt(centerX, feetY), image.Pt(poolRX, poolRY), 0, 0, 360, c, 2)
}

// drawOutline draws a thin box with heavier ticks at the corners.
func (r *Renderer) drawOutline(frame *gocv.Mat, ov Overlay, c color.RGBA) {
	box := ov.Box
	gocv.Rectangle(frame, box, c, 1)

	tick := box.Dx() / 5
	if tick < 10 {
		tick = 10
	}
	corners := []image.Point{box.Min, {X: box.Max.X, Y: box.Min.Y}, box.Max, {X: box.Min.X, Y: box.Max.Y}}
	dirs := [][2]image.Point{
		{{X: tick, Y: 0}, {X: 0, Y: tick}},
		{{X: -tick, Y: 0}, {X: 0, Y: tick}},
		{{X: -tick, Y: 0}, {X: 0, Y: -tick}},
		{{X: tick, Y: 0}, {X: 0, Y: -tick}},
	}
	for i, corner := range corners {
		gocv.Line(frame, corner, corner.Add(dirs[i][0]), c, 3)
		gocv.Line(frame, corner, corner.Add(dirs[i][1]), c, 3)
	}
}

func (r *Renderer) drawCrosshair(frame *gocv.Mat, ov Overlay, c color.RGBA) {
	box := ov.Box
	center := image.Pt(box.Min.X+box.Dx()/2, box.Min.Y+box.Dy()/2)
	radius := box.Dx() / 2
	if radius < 20 {
		radius = 20
	}
	gap := radius / 3

	gocv.Circle(frame, center, radius, c, 2)
	gocv.Line(frame, image.Pt(center.X-radius-gap, center.Y), image.Pt(center.X-gap, center.Y), c, 2)
	gocv.Line(frame, image.Pt(center.X+gap, center.Y), image.Pt(center.X+radius+gap, center.Y), c, 2)
	gocv.Line(frame, image.Pt(center.X, center.Y-radius-gap), image.Pt(center.X, center.Y-gap), c, 2)
	gocv.Line(frame, image.Pt(center.X, center.Y+gap), image.Pt(center.X, center.Y+radius+gap), c, 2)
	gocv.Circle(frame, center, 2, c, -1)
}

func (r *Renderer) drawLabel(frame *gocv.Mat, ov Overlay, c color.RGBA) {
	org := image.Pt(ov.Box.Min.X, ov.Box.Min.Y-8)
	if org.Y < 12 {
		org.Y = ov.Box.Max.Y + 16
	}
	gocv.PutText(frame, ov.Label, org, gocv.FontHersheySimplex, 0.55, c, 2)
}

func fillPoly(frame *gocv.Mat, pts []image.Point, c color.RGBA) {
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{pts})
	defer pv.Close()
	gocv.FillPoly(frame, pv, c)
}

func lighten(c color.RGBA) color.RGBA {
	return color.RGBA{R: boost(c.R), G: boost(c.G), B: boost(c.B), A: c.A}
}

func darken(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R * 7 / 10, G: c.G * 7 / 10, B: c.B * 7 / 10, A: c.A}
}

func boost(v uint8) uint8 {
	if v > 155 {
		return 255
	}
	return v + 100
}
