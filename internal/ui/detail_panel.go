package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"ble-beacon.klederson.com/internal/beacon"
	"ble-beacon.klederson.com/internal/bluetooth"
	"github.com/charmbracelet/lipgloss"
)

// DetailInfo is what the "Emulating Beacon" view shows.
type DetailInfo struct {
	Profile     beacon.Profile
	OnAir       bool
	Heard       *bluetooth.Sighting // our own frame as heard by the watcher, or nil
	RSSIHistory []float64
	Radio       bluetooth.AdvertiseConfig
}

// RenderDetailPanel renders the emulation view that replaces the menu.
func RenderDetailPanel(info DetailInfo, width, height int) string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}

	heading := "EMULATING BEACON"
	if !info.OnAir {
		heading = "BEACON STOPPED"
	}
	title := StylePanelTitle.Render(heading)
	escHint := StyleHelp.Render("[ESC]")
	titleLine := title + strings.Repeat(" ", max(0, innerW-lipgloss.Width(title)-lipgloss.Width(escHint))) + escHint

	sep := StyleSeparator.Render(strings.Repeat("-", innerW))
	lines := []string{titleLine, sep, ""}

	p := info.Profile
	frame := beacon.Encode(p)
	fields := []struct{ label, value string }{
		{"Name", p.DisplayName()},
		{"Major", fmt.Sprintf("%d", p.Major)},
		{"Minor", fmt.Sprintf("%d", p.Minor)},
		{"UUID", p.Identifier.String()},
		{"Tail", p.ShortID()},
		{"TX@1m", fmt.Sprintf("%d dBm", p.Calibration)},
	}
	for _, f := range fields {
		lines = append(lines, StyleLabel.Render(fmt.Sprintf("  %-8s", f.label))+StyleValue.Render(f.value))
	}

	if r := info.Radio; r.MinInterval > 0 {
		radio := []struct{ label, value string }{
			{"Interval", fmt.Sprintf("%d-%dms", r.MinInterval.Milliseconds(), r.MaxInterval.Milliseconds())},
			{"Address", fmt.Sprintf("%s (%s)", r.Address, r.AddressType)},
			{"Power", r.PowerLevel},
		}
		lines = append(lines, "")
		for _, f := range radio {
			lines = append(lines, StyleLabel.Render(fmt.Sprintf("  %-8s", f.label))+StyleValue.Render(f.value))
		}
	}

	lines = append(lines, "", StyleLabel.Render("  Frame:"))
	for _, chunk := range wrapHex(frame.String(), innerW-4) {
		lines = append(lines, "    "+StyleBeacon.Render(chunk))
	}
	lines = append(lines, "")

	if sg := info.Heard; sg != nil {
		barWidth := innerW - 22
		if barWidth < 10 {
			barWidth = 10
		}
		lines = append(lines,
			StyleLabel.Render("  Signal ")+renderSignalBar(sg.RSSI, barWidth)+StyleValue.Render(fmt.Sprintf(" %ddBm", int(sg.RSSI))),
			StyleLabel.Render(fmt.Sprintf("  Heard    ~%.1fm, %s", sg.Distance, formatLastSeen(sg.LastSeen))),
		)
		if len(info.RSSIHistory) > 0 {
			sparkW := innerW - 4
			if sparkW < 10 {
				sparkW = 10
			}
			lines = append(lines,
				StyleLabel.Render("  RSSI History:"),
				"  "+lipgloss.NewStyle().Foreground(ColorGreen).Render(renderSparkline(info.RSSIHistory, sparkW)),
			)
		}
	} else if info.OnAir {
		lines = append(lines, StyleHelp.Render("  Not heard yet"))
	}

	for len(lines) < height-2 {
		lines = append(lines, "")
	}

	content := strings.Join(lines, "\n")
	rendered := StylePanelActive.Width(width - 2).Height(height - 2).Render(content)
	return clampLines(rendered, height)
}

// wrapHex splits a spaced hex string into lines of at most w characters,
// breaking between bytes.
func wrapHex(s string, w int) []string {
	perLine := (w + 1) / 3
	if perLine < 1 {
		perLine = 1
	}
	bytes := strings.Fields(s)
	var out []string
	for len(bytes) > 0 {
		n := min(perLine, len(bytes))
		out = append(out, strings.Join(bytes[:n], " "))
		bytes = bytes[n:]
	}
	return out
}

func renderSignalBar(rssi float64, width int) string {
	// Map RSSI -100..-30 to 0..width filled bars
	ratio := (rssi + 100.0) / 70.0
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(math.Round(ratio * float64(width)))

	bar := strings.Repeat("|", filled) + strings.Repeat("-", width-filled)
	filledPart := lipgloss.NewStyle().Foreground(lipgloss.Color(proximityColor(rssi))).Render(bar[:filled])
	emptyPart := lipgloss.NewStyle().Foreground(ColorDimGreen).Render(bar[filled:])
	return StyleHelp.Render("[") + filledPart + emptyPart + StyleHelp.Render("]")
}

func proximityColor(rssi float64) string {
	if rssi > -50 {
		return "#00FF41"
	}
	if rssi > -60 {
		return "#00CC33"
	}
	if rssi > -70 {
		return "#00AA22"
	}
	if rssi > -80 {
		return "#008F11"
	}
	return "#005511"
}

func renderSparkline(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}

	chars := []byte{'_', '.', '-', '~', '^'}

	minV, maxV := values[0], values[0]
	for _, v := range values {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	rng := maxV - minV
	if rng < 1 {
		rng = 1
	}

	// Take last `width` values
	start := 0
	if len(values) > width {
		start = len(values) - width
	}

	var sb strings.Builder
	for i := start; i < len(values); i++ {
		idx := int((values[i] - minV) / rng * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		sb.WriteByte(chars[idx])
	}
	return sb.String()
}

func formatLastSeen(t time.Time) string {
	d := time.Since(t)
	if d < time.Second {
		return "now"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm ago", int(d.Minutes()))
}
