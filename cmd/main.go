package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"clockwork/internal/audio"
	"clockwork/internal/core/controller"
	"clockwork/internal/core/countdown"
	"clockwork/internal/core/model"
	"clockwork/internal/core/scheduler"
	"clockwork/internal/core/stats"
	"clockwork/internal/interchange"
	"clockwork/internal/platform"
	"clockwork/internal/storage"
	"clockwork/internal/ui/animation"
	"clockwork/internal/ui/calendarview"
	"clockwork/internal/ui/clockwindow"
	"clockwork/internal/ui/preferences"
	"clockwork/internal/ui/tray"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

const appName = "Clockwork"

func main() {
	bootLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if activateErr := platform.ActivateRunning(appName); activateErr != nil {
			bootLogger.Error("single instance", "error", err, "activate", activateErr)
		}
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	service := platform.NewService()
	configDir, err := platform.AppConfigDir(service, appName)
	if err != nil {
		bootLogger.Error("resolve config directory", "error", err)
		return
	}
	config, err := storage.LoadConfig(configDir)
	if err != nil {
		bootLogger.Warn("config file ignored", "error", err)
	} else if _, statErr := os.Stat(filepath.Join(configDir, storage.ConfigFileName)); errors.Is(statErr, os.ErrNotExist) {
		if err := storage.SaveConfig(configDir, config); err != nil {
			bootLogger.Warn("write default config", "error", err)
		}
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.LogLevel}))

	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		logger.Error("create data directory", "dir", config.DataDir, "error", err)
		return
	}
	openCtx, cancelOpen := context.WithTimeout(context.Background(), 5*time.Second)
	kv, err := storage.OpenSQLite(openCtx, config.DatabasePath())
	cancelOpen()
	if err != nil {
		logger.Error("open database", "path", config.DatabasePath(), "error", err)
		return
	}
	gateway := storage.NewGateway(kv, storage.NewNoteCipher(""), logger)
	defer func() {
		_ = gateway.Close()
	}()

	interchangeService := interchange.NewService(gateway, config.SeedFile, logger)
	tracker := stats.NewTracker(gateway, logger)
	loginItem := platform.NewLoginItem(service, appName, logger)

	var settingsMu sync.Mutex
	settings := gateway.LoadSettings()
	currentSettings := func() model.Settings {
		settingsMu.Lock()
		defer settingsMu.Unlock()
		return settings
	}

	if err := loginItem.Sync(settings.LaunchAtLogin); err != nil {
		logger.Warn("launch at login not synced", "error", err)
	}

	notifier := audio.NewNotifier(&audio.SpeakerOutput{}, logger)
	notifier.SetEnabled(settings.EnableSound)

	engine := countdown.New(nil)
	engine.SetNotifier(notifier)
	engine.SetRecorder(tracker)
	defer engine.Close()

	fyneApp := app.NewWithID("com.clockwork.app")
	animator := animation.New(animation.DefaultConfig())
	defer animator.StopAll()

	var calendarWindow *calendarview.Window
	var prefsWindow *preferences.Window
	var console *preferences.Console

	clock := clockwindow.New(fyneApp, clockwindow.Config{
		Title:   appName,
		Size:    fyne.NewSize(config.WindowWidth, config.WindowHeight),
		Presets: config.Presets,
	}, animator, clockwindow.Callbacks{
		OnCalendar: func() {
			calendarWindow.Toggle()
		},
		OnPreferences: func() {
			prefsWindow.UpdateSettings(currentSettings())
			prefsWindow.Show()
		},
		OnDevConsole: func() {
			console.Show()
		},
		OnEscape: func() {
			calendarWindow.Hide()
			prefsWindow.Hide()
			console.Hide()
		},
		OnMoved: func(position model.Position) {
			if err := gateway.SavePosition(position); err != nil {
				logger.Warn("save position failed", "error", err)
			}
		},
	}, logger)

	var trayManager *tray.Manager
	view := &trayMirror{Window: clock}

	schedulerCtx, cancelScheduler := context.WithCancel(context.Background())
	defer cancelScheduler()
	ctrl := controller.New(engine, view, currentSettings, logger)
	runner := scheduler.New(engine, scheduler.NewTickerTimers(schedulerCtx), ctrl.Callbacks(), scheduler.Config{
		TickInterval:  config.TickInterval,
		FrameInterval: config.FrameInterval,
		Logger:        logger,
	})
	ctrl.SetRunner(runner)
	clock.SetCountdown(ctrl)

	calendarWindow = calendarview.New(fyneApp, interchangeService, animator, logger)
	console = preferences.NewConsole(fyneApp, tracker, gateway.CalendarBackups)

	applySettings := func(updated model.Settings) {
		settingsMu.Lock()
		previous := settings
		settings = updated
		settingsMu.Unlock()

		if err := gateway.SaveSettings(updated); err != nil {
			clock.ShowError(err)
		}
		notifier.SetEnabled(updated.EnableSound)
		clock.ApplySettings(updated)
		if updated.LaunchAtLogin != previous.LaunchAtLogin {
			if err := loginItem.Apply(updated.LaunchAtLogin); err != nil {
				clock.ShowError(err)
			}
		}
	}

	prefsWindow = preferences.New(fyneApp, settings, preferences.Callbacks{
		OnSave: applySettings,
		OnTestTick: func(pitchHz int, volume float64) {
			notifier.PlayPreview(pitchHz, volume)
		},
		OnExportBackup: interchangeService.ExportBundle,
		OnImportBackup: func(reader io.Reader) (int, error) {
			written, err := interchangeService.ImportBundle(reader)
			if err != nil {
				return 0, err
			}
			restored := gateway.LoadSettings()
			settingsMu.Lock()
			settings = restored
			settingsMu.Unlock()
			notifier.SetEnabled(restored.EnableSound)
			clock.ApplySettings(restored)
			prefsWindow.UpdateSettings(restored)
			tracker.Reload()
			if position, ok := gateway.LoadPosition(); ok {
				clock.RestorePosition(position)
			}
			return written, nil
		},
	})

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnShowClock:       clock.Show,
			OnToggleCountdown: clock.ToggleCountdown,
			OnReset:           ctrl.Reset,
			OnCalendar:        calendarWindow.Show,
			OnPreferences: func() {
				prefsWindow.UpdateSettings(currentSettings())
				prefsWindow.Show()
			},
			OnQuit: fyneApp.Quit,
		})
		view.tray = trayManager
	} else {
		logger.Info("system tray unsupported on this platform")
	}

	guard.Serve(func() {
		fyne.Do(clock.Show)
	})

	clock.ApplySettings(settings)
	if position, ok := gateway.LoadPosition(); ok {
		clock.RestorePosition(position)
	}
	clock.Window().SetCloseIntercept(func() {
		runner.Halt()
		fyneApp.Quit()
	})
	clock.Show()
	fyneApp.Run()
}

// trayMirror forwards countdown rendering to the tray menu as well as the
// main window.
type trayMirror struct {
	*clockwindow.Window
	tray       *tray.Manager
	mu         sync.Mutex
	lastMinute string
}

func (mirror *trayMirror) ShowRemaining(text string) {
	mirror.Window.ShowRemaining(text)
	if mirror.tray == nil {
		return
	}
	minute := minutePrefix(text)
	mirror.mu.Lock()
	changed := minute != mirror.lastMinute
	mirror.lastMinute = minute
	mirror.mu.Unlock()
	if changed {
		fyne.Do(func() {
			mirror.tray.SetRemaining(minute)
		})
	}
}

func (mirror *trayMirror) SetStatus(label string) {
	mirror.Window.SetStatus(label)
	if mirror.tray != nil {
		fyne.Do(func() {
			mirror.tray.SetStatus(label)
			mirror.tray.SetToggleLabel(toggleLabel(label))
		})
	}
}

func (mirror *trayMirror) SetCountdownActive(active bool) {
	mirror.Window.SetCountdownActive(active)
	if mirror.tray != nil {
		fyne.Do(func() {
			mirror.tray.SetActive(active)
		})
	}
}

// minutePrefix trims HH:MM:SS to HH:MM so the tray menu is rebuilt once a
// minute at most.
func minutePrefix(text string) string {
	if len(text) < 5 || text == countdown.FormatClock(0) {
		return ""
	}
	return text[:5]
}

func toggleLabel(status string) string {
	switch status {
	case countdown.StatusLabel(countdown.StateRunning):
		return "Pause"
	case countdown.StatusLabel(countdown.StatePaused):
		return "Resume"
	default:
		return "Start"
	}
}
