package platform

import (
	"errors"
	"fmt"
	"strings"
)

// Login entry validation errors.
var (
	ErrEmptyName = errors.New("login entry name is empty")
	ErrEmptyExec = errors.New("login entry executable is empty")
)

// LoginEntry describes how the desktop session starts the app.
type LoginEntry struct {
	Name    string
	Exec    string
	Comment string
}

// Validate reports a missing name or executable.
func (entry LoginEntry) Validate() error {
	if strings.TrimSpace(entry.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(entry.Exec) == "" {
		return ErrEmptyExec
	}
	return nil
}

// slug is the file-system friendly form of an app name.
func slug(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "clockwork"
	}
	return strings.ReplaceAll(name, " ", "-")
}

func desktopFileName(name string) string {
	return slug(name) + ".desktop"
}

// desktopEntry renders an XDG autostart file.
func desktopEntry(entry LoginEntry) string {
	execLine := entry.Exec
	if strings.Contains(execLine, " ") && !strings.HasPrefix(execLine, `"`) {
		execLine = `"` + execLine + `"`
	}

	var builder strings.Builder
	builder.WriteString("[Desktop Entry]\n")
	builder.WriteString("Type=Application\n")
	fmt.Fprintf(&builder, "Name=%s\n", entry.Name)
	if entry.Comment != "" {
		fmt.Fprintf(&builder, "Comment=%s\n", entry.Comment)
	}
	fmt.Fprintf(&builder, "Exec=%s\n", execLine)
	builder.WriteString("X-GNOME-Autostart-enabled=true\n")
	builder.WriteString("Terminal=false\n")
	return builder.String()
}

func launchAgentLabel(name string) string {
	return "com.clockwork." + slug(name)
}

// launchAgentPlist renders a macOS LaunchAgent that runs at login.
func launchAgentPlist(entry LoginEntry) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array>
		<string>%s</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
</dict>
</plist>
`, xmlEscape(launchAgentLabel(entry.Name)), xmlEscape(entry.Exec))
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func xmlEscape(value string) string {
	return xmlReplacer.Replace(value)
}

func quoteWindowsPath(execPath string) string {
	return `"` + strings.Trim(execPath, `"`) + `"`
}
