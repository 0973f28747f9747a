// Package overlay dims the clock window in stealth mode.
package overlay

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

// Stealth levels.
const (
	ShadeAlpha    uint8 = 170
	WindowOpacity uint8 = 110
	opaque        uint8 = 255
)

// Stealth owns the translucent shade stacked over the window content and,
// where the platform allows it, the native window alpha.
type Stealth struct {
	window  fyne.Window
	shade   *canvas.Rectangle
	enabled bool
}

// NewStealth creates a disabled shade for window.
func NewStealth(window fyne.Window) *Stealth {
	shade := canvas.NewRectangle(color.NRGBA{})
	shade.Hide()
	return &Stealth{
		window: window,
		shade:  shade,
	}
}

// Object returns the shade to stack above the content.
func (stealth *Stealth) Object() fyne.CanvasObject {
	return stealth.shade
}

// SetEnabled switches stealth mode. Call on the UI goroutine.
func (stealth *Stealth) SetEnabled(enabled bool) {
	stealth.enabled = enabled
	if enabled {
		stealth.shade.FillColor = color.NRGBA{A: ShadeAlpha}
		stealth.shade.Show()
		stealth.applyNativeOpacity(WindowOpacity)
	} else {
		stealth.shade.FillColor = color.NRGBA{}
		stealth.shade.Hide()
		stealth.applyNativeOpacity(opaque)
	}
	canvas.Refresh(stealth.shade)
}

// Enabled reports whether stealth mode is on.
func (stealth *Stealth) Enabled() bool {
	return stealth.enabled
}
