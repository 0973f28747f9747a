package card

import (
	"clockwork/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// Constrain keeps a card of the given size fully inside area. A card larger
// than the area is pinned to the top-left corner.
func Constrain(topLeft fyne.Position, size, area fyne.Size) fyne.Position {
	return fyne.NewPos(clamp(topLeft.X, area.Width-size.Width), clamp(topLeft.Y, area.Height-size.Height))
}

func clamp(value, max float32) float32 {
	if value > max {
		value = max
	}
	if value < 0 {
		value = 0
	}
	return value
}

// CentreOf returns the centre of a card placed at topLeft.
func CentreOf(topLeft fyne.Position, size fyne.Size) model.Position {
	return model.Position{
		X: float64(topLeft.X + size.Width/2),
		Y: float64(topLeft.Y + size.Height/2),
	}
}

// TopLeftFor returns where a card centred on centre starts.
func TopLeftFor(centre model.Position, size fyne.Size) fyne.Position {
	return fyne.NewPos(float32(centre.X)-size.Width/2, float32(centre.Y)-size.Height/2)
}

// PlaceAt centres the card on a stored position at the next layout.
func (card *Card) PlaceAt(centre model.Position) {
	card.centre = centre
	card.placed = true
	if !card.area.IsZero() {
		card.Move(Constrain(TopLeftFor(centre, card.Size()), card.Size(), card.area))
	}
}

// Centre returns the current centre of the card.
func (card *Card) Centre() model.Position {
	return CentreOf(card.Position(), card.Size())
}

// Dragged implements fyne.Draggable.
func (card *Card) Dragged(event *fyne.DragEvent) {
	current := card.Position()
	next := fyne.NewPos(current.X+event.Dragged.DX, current.Y+event.Dragged.DY)
	card.Move(Constrain(next, card.Size(), card.area))
	card.centre = card.Centre()
	card.placed = true
}

// DragEnd implements fyne.Draggable.
func (card *Card) DragEnd() {
	if card.actions.OnMoved != nil {
		card.actions.OnMoved(card.Centre())
	}
}

// NewLayer returns the container the card floats in.
func NewLayer(card *Card) *fyne.Container {
	return container.New(&floatLayout{card: card}, card)
}

type floatLayout struct {
	card *Card
}

func (layout *floatLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	card := layout.card
	card.area = size
	cardSize := card.MinSize()
	card.Resize(cardSize)

	topLeft := fyne.NewPos((size.Width-cardSize.Width)/2, (size.Height-cardSize.Height)/2)
	if card.placed {
		topLeft = TopLeftFor(card.centre, cardSize)
	}
	card.Move(Constrain(topLeft, cardSize, size))
}

func (layout *floatLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	return layout.card.MinSize()
}
