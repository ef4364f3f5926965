package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/FluidXR/fetchdroid/internal/deviceinfo"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
	cardTitleStyle = lipgloss.NewStyle().Bold(true)
	cardLabelStyle = lipgloss.NewStyle().Faint(true).Width(16)
	goodStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	badStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// renderSnapshot draws snap as a bordered card.
func renderSnapshot(snap deviceinfo.Snapshot, title string) string {
	if title == "" {
		title = snap.Manufacturer + " " + snap.Model
	}
	rows := []struct{ label, value string }{
		{"Device", snap.DeviceID},
		{"Serial", snap.SerialNumber},
		{"Android", snap.AndroidVersion},
		{"Build", snap.BuildNumber},
		{"Security patch", snap.SecurityPatch},
		{"Bootloader", bootloaderText(snap.Bootloader)},
		{"Root", rootText(snap.Rooted)},
		{"Uptime", snap.Uptime},
		{"Chipset", snap.Chipset.Description},
		{"RAM", snap.RAM},
		{"Storage", storageText(snap.Storage)},
		{"Apps", fmt.Sprintf("%d", snap.InstalledApps)},
		{"Battery", snap.Battery},
	}

	var b strings.Builder
	b.WriteString(cardTitleStyle.Render(title))
	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(cardLabelStyle.Render(r.label))
		b.WriteString(r.value)
	}
	return cardStyle.Render(b.String())
}

func bootloaderText(s deviceinfo.BootloaderState) string {
	switch s {
	case deviceinfo.Locked:
		return goodStyle.Render("locked")
	case deviceinfo.PartiallyLocked:
		return warnStyle.Render("partially locked")
	case deviceinfo.Unlocked:
		return badStyle.Render("unlocked")
	default:
		return deviceinfo.Unknown
	}
}

func rootText(rooted bool) string {
	if rooted {
		return warnStyle.Render("rooted")
	}
	return "not rooted"
}

func storageText(s deviceinfo.Storage) string {
	if s.Total == deviceinfo.Unknown {
		return deviceinfo.Unknown
	}
	text := fmt.Sprintf("%s used of %s (%d%%), %s free", s.Used, s.Total, s.Percent, s.Available)
	switch {
	case s.Percent >= 90:
		return badStyle.Render(text)
	case s.Percent >= 75:
		return warnStyle.Render(text)
	default:
		return text
	}
}
