package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

const menuTitle = "Clockwork"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShowClock       func()
	OnToggleCountdown func()
	OnReset           func()
	OnCalendar        func()
	OnPreferences     func()
	OnQuit            func()
}

// Manager handles system tray state.
type Manager struct {
	app         desktop.App
	statusItem  *fyne.MenuItem
	toggleItem  *fyne.MenuItem
	resetItem   *fyne.MenuItem
	callbacks   Callbacks
	statusLabel string
	remaining   string
}

// New creates a tray manager with the provided callbacks. app may be nil
// on platforms without a system tray.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:         app,
		callbacks:   callbacks,
		statusLabel: "Ready",
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true

	manager.toggleItem = fyne.NewMenuItem("Start", func() {
		invoke(manager.callbacks.OnToggleCountdown)
	})

	manager.resetItem = fyne.NewMenuItem("Reset", func() {
		invoke(manager.callbacks.OnReset)
	})
	manager.resetItem.Disabled = true

	manager.refreshStatus()
	return manager
}

func invoke(handler func()) {
	if handler != nil {
		handler()
	}
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.refreshStatus()
}

// SetRemaining shows the countdown text next to the status. Empty hides it.
func (manager *Manager) SetRemaining(remaining string) {
	manager.remaining = remaining
	manager.refreshStatus()
}

// SetToggleLabel mirrors the card's start button label.
func (manager *Manager) SetToggleLabel(label string) {
	manager.toggleItem.Label = label
	manager.refreshMenu()
}

// SetActive enables reset while a countdown exists.
func (manager *Manager) SetActive(active bool) {
	manager.resetItem.Disabled = !active
	manager.refreshMenu()
}

// Status returns the current status line.
func (manager *Manager) Status() string {
	return manager.statusItem.Label
}

func (manager *Manager) refreshStatus() {
	status := manager.statusLabel
	if status == "" {
		status = "Ready"
	}
	if manager.remaining != "" {
		status = fmt.Sprintf("%s (%s)", status, manager.remaining)
	}
	manager.statusItem.Label = fmt.Sprintf("Status: %s", status)
	manager.refreshMenu()
}

func (manager *Manager) menu() *fyne.Menu {
	return fyne.NewMenu(menuTitle,
		manager.statusItem,
		fyne.NewMenuItem("Show clock", func() {
			invoke(manager.callbacks.OnShowClock)
		}),
		fyne.NewMenuItemSeparator(),
		manager.toggleItem,
		manager.resetItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Calendar", func() {
			invoke(manager.callbacks.OnCalendar)
		}),
		fyne.NewMenuItem("Preferences", func() {
			invoke(manager.callbacks.OnPreferences)
		}),
		fyne.NewMenuItemSeparator(),
		manager.quitItem(),
	)
}

func (manager *Manager) quitItem() *fyne.MenuItem {
	quit := fyne.NewMenuItem("Quit", func() {
		invoke(manager.callbacks.OnQuit)
	})
	quit.IsQuit = true
	return quit
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.menu())
	}
}
