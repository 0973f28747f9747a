//go:build !windows

package overlay

func (stealth *Stealth) applyNativeOpacity(alpha uint8) {}
