// Package clockface draws the analog clock and formats the digital one.
package clockface

import (
	"image/color"
	"math"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// Hand lengths as a fraction of the dial radius.
const (
	HourHandLength   = 0.5
	MinuteHandLength = 0.7
	SecondHandLength = 0.8
)

const (
	markCount     = 60
	numeralRadius = 0.75
	minFaceSide   = 120
)

var (
	dialColor    = color.NRGBA{R: 255, G: 255, B: 255, A: 24}
	markColor    = color.NRGBA{R: 255, G: 255, B: 255, A: 200}
	handColor    = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	secondColor  = color.NRGBA{R: 231, G: 76, B: 60, A: 255}
	numeralColor = color.NRGBA{R: 255, G: 255, B: 255, A: 230}
)

// Angles of the three hands in radians, clockwise from twelve o'clock.
type Angles struct {
	Hour   float64
	Minute float64
	Second float64
}

// HandAngles returns the hand positions for t. Hour and minute hands sweep
// continuously; the second hand jumps once per second.
func HandAngles(t time.Time) Angles {
	seconds := float64(t.Second())
	minutes := float64(t.Minute()) + seconds/60
	hours := float64(t.Hour()%12) + minutes/60
	return Angles{
		Hour:   hours / 12 * 2 * math.Pi,
		Minute: minutes / 60 * 2 * math.Pi,
		Second: seconds / 60 * 2 * math.Pi,
	}
}

// PointAt returns the point length away from center in direction angle.
func PointAt(center fyne.Position, length float32, angle float64) fyne.Position {
	return fyne.NewPos(
		center.X+length*float32(math.Sin(angle)),
		center.Y-length*float32(math.Cos(angle)),
	)
}

// DigitalTime renders the digital clock line.
func DigitalTime(t time.Time) string {
	return t.Format("15:04:05")
}

// DateLine renders the long date under the digital clock.
func DateLine(t time.Time) string {
	return t.Format("Monday, 2 January 2006")
}

// Face is an analog clock widget.
type Face struct {
	widget.BaseWidget
	current time.Time
}

// NewFace creates a clock face showing t.
func NewFace(t time.Time) *Face {
	face := &Face{current: t}
	face.ExtendBaseWidget(face)
	return face
}

// SetTime moves the hands. Call on the UI goroutine.
func (face *Face) SetTime(t time.Time) {
	face.current = t
	face.Refresh()
}

// Time returns the time shown.
func (face *Face) Time() time.Time {
	return face.current
}

// CreateRenderer implements fyne.Widget.
func (face *Face) CreateRenderer() fyne.WidgetRenderer {
	renderer := &faceRenderer{
		face: face,
		dial: canvas.NewCircle(dialColor),
		hub:  canvas.NewCircle(secondColor),
	}
	renderer.dial.StrokeColor = markColor
	renderer.dial.StrokeWidth = 2

	renderer.objects = append(renderer.objects, renderer.dial)
	for i := 0; i < markCount; i++ {
		mark := canvas.NewLine(markColor)
		mark.StrokeWidth = 1
		if i%5 == 0 {
			mark.StrokeWidth = 3
		}
		renderer.marks = append(renderer.marks, mark)
		renderer.objects = append(renderer.objects, mark)
	}
	for _, hour := range []int{12, 3, 6, 9} {
		numeral := canvas.NewText(strconv.Itoa(hour), numeralColor)
		numeral.TextStyle = fyne.TextStyle{Bold: true}
		numeral.Alignment = fyne.TextAlignCenter
		renderer.numerals = append(renderer.numerals, numeral)
		renderer.objects = append(renderer.objects, numeral)
	}

	renderer.hour = newHand(handColor, 5)
	renderer.minute = newHand(handColor, 3)
	renderer.second = newHand(secondColor, 1.5)
	renderer.objects = append(renderer.objects, renderer.hour, renderer.minute, renderer.second, renderer.hub)
	return renderer
}

func newHand(fill color.Color, width float32) *canvas.Line {
	hand := canvas.NewLine(fill)
	hand.StrokeWidth = width
	return hand
}

type faceRenderer struct {
	face     *Face
	dial     *canvas.Circle
	marks    []*canvas.Line
	numerals []*canvas.Text
	hour     *canvas.Line
	minute   *canvas.Line
	second   *canvas.Line
	hub      *canvas.Circle
	objects  []fyne.CanvasObject
}

func (renderer *faceRenderer) Layout(size fyne.Size) {
	center, radius := geometry(size)
	renderer.dial.Move(fyne.NewPos(center.X-radius, center.Y-radius))
	renderer.dial.Resize(fyne.NewSize(radius*2, radius*2))

	for i, mark := range renderer.marks {
		angle := float64(i) / markCount * 2 * math.Pi
		inner := radius * 0.92
		if i%5 == 0 {
			inner = radius * 0.85
		}
		mark.Position1 = PointAt(center, inner, angle)
		mark.Position2 = PointAt(center, radius*0.97, angle)
	}

	textSize := radius * 0.16
	for i, numeral := range renderer.numerals {
		numeral.TextSize = textSize
		at := PointAt(center, radius*numeralRadius, float64(i)*math.Pi/2)
		numeral.Move(fyne.NewPos(at.X-textSize, at.Y-textSize*0.7))
		numeral.Resize(fyne.NewSize(textSize*2, textSize*1.4))
	}

	hub := radius * 0.05
	renderer.hub.Move(fyne.NewPos(center.X-hub, center.Y-hub))
	renderer.hub.Resize(fyne.NewSize(hub*2, hub*2))
	renderer.layoutHands(center, radius)
}

func (renderer *faceRenderer) layoutHands(center fyne.Position, radius float32) {
	angles := HandAngles(renderer.face.current)
	for _, hand := range []struct {
		line   *canvas.Line
		length float32
		angle  float64
	}{
		{renderer.hour, radius * HourHandLength, angles.Hour},
		{renderer.minute, radius * MinuteHandLength, angles.Minute},
		{renderer.second, radius * SecondHandLength, angles.Second},
	} {
		hand.line.Position1 = center
		hand.line.Position2 = PointAt(center, hand.length, hand.angle)
	}
}

func (renderer *faceRenderer) MinSize() fyne.Size {
	return fyne.NewSize(minFaceSide, minFaceSide)
}

func (renderer *faceRenderer) Refresh() {
	center, radius := geometry(renderer.face.Size())
	renderer.layoutHands(center, radius)
	canvas.Refresh(renderer.hour)
	canvas.Refresh(renderer.minute)
	canvas.Refresh(renderer.second)
}

func (renderer *faceRenderer) Objects() []fyne.CanvasObject {
	return renderer.objects
}

func (renderer *faceRenderer) Destroy() {}

func geometry(size fyne.Size) (fyne.Position, float32) {
	side := size.Width
	if size.Height < side {
		side = size.Height
	}
	return fyne.NewPos(size.Width/2, size.Height/2), side / 2
}
