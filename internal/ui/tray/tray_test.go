package tray

import (
	"testing"

	"fyne.io/fyne/v2"
)

type fakeTrayApp struct {
	menu  *fyne.Menu
	icon  fyne.Resource
	count int
}

func (app *fakeTrayApp) SetSystemTrayMenu(menu *fyne.Menu) {
	app.menu = menu
	app.count++
}

func (app *fakeTrayApp) SetSystemTrayIcon(icon fyne.Resource) {
	app.icon = icon
}

func (app *fakeTrayApp) SetSystemTrayWindow(fyne.Window) {}

func findItem(menu *fyne.Menu, label string) *fyne.MenuItem {
	for _, item := range menu.Items {
		if item.Label == label {
			return item
		}
	}
	return nil
}

func TestMenuReflectsCountdown(t *testing.T) {
	app := &fakeTrayApp{}
	manager := New(app, Callbacks{})

	if app.menu == nil || app.menu.Label != "Clockwork" {
		t.Fatalf("expected initial menu")
	}
	if manager.Status() != "Status: Ready" {
		t.Fatalf("unexpected status %s", manager.Status())
	}

	manager.SetStatus("Running")
	manager.SetRemaining("00:04:59")
	manager.SetToggleLabel("Pause")
	manager.SetActive(true)

	if manager.Status() != "Status: Running (00:04:59)" {
		t.Fatalf("unexpected status %s", manager.Status())
	}
	toggle := findItem(app.menu, "Pause")
	if toggle == nil {
		t.Fatalf("toggle item not relabelled")
	}
	if reset := findItem(app.menu, "Reset"); reset == nil || reset.Disabled {
		t.Fatalf("reset should be enabled while active")
	}

	manager.SetRemaining("")
	if manager.Status() != "Status: Running" {
		t.Fatalf("unexpected status %s", manager.Status())
	}
}

func TestMenuActionsInvokeCallbacks(t *testing.T) {
	app := &fakeTrayApp{}
	calls := map[string]int{}
	New(app, Callbacks{
		OnShowClock:       func() { calls["show"]++ },
		OnToggleCountdown: func() { calls["toggle"]++ },
		OnCalendar:        func() { calls["calendar"]++ },
		OnPreferences:     func() { calls["preferences"]++ },
		OnQuit:            func() { calls["quit"]++ },
	})

	for _, label := range []string{"Show clock", "Start", "Calendar", "Preferences", "Quit"} {
		item := findItem(app.menu, label)
		if item == nil {
			t.Fatalf("missing menu item %s", label)
		}
		item.Action()
	}
	for _, name := range []string{"show", "toggle", "calendar", "preferences", "quit"} {
		if calls[name] != 1 {
			t.Fatalf("expected one %s call, got %d", name, calls[name])
		}
	}
	if quit := findItem(app.menu, "Quit"); !quit.IsQuit {
		t.Fatalf("quit item must replace the default one")
	}
}

func TestNilAppIsAllowed(t *testing.T) {
	manager := New(nil, Callbacks{})
	manager.SetStatus("Paused")
	if manager.Status() != "Status: Paused" {
		t.Fatalf("unexpected status %s", manager.Status())
	}
}
