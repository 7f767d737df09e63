package ui

import (
	"fmt"
	"strings"

	"ble-beacon.klederson.com/internal/beacon"
)

// RenderProfileList renders the "Select Beacon" menu. onAir is the index of
// the profile being broadcast, or -1.
func RenderProfileList(profiles []beacon.Profile, width, height, cursor, onAir int) string {
	innerW := width - 4
	if innerW < 10 {
		innerW = 10
	}

	title := StylePanelTitle.Render(fmt.Sprintf("SELECT BEACON [%d]", len(profiles)))
	separator := StyleSeparator.Render(strings.Repeat("-", innerW))
	headerLines := []string{title, separator}

	innerH := height - 2
	if innerH < len(headerLines)+1 {
		innerH = len(headerLines) + 1
	}
	space := innerH - len(headerLines)

	var lines []string
	if len(profiles) == 0 {
		lines = append(lines, "", StyleHelp.Render(" No beacons loaded"))
	} else {
		const linesPerEntry = 3 // 2 content + 1 blank
		maxVisible := space / linesPerEntry
		if maxVisible < 1 {
			maxVisible = 1
		}

		// Keep the cursor inside the viewport
		viewStart := 0
		if cursor >= maxVisible {
			viewStart = cursor - maxVisible + 1
		}

		for i := viewStart; i < len(profiles) && len(lines) < space; i++ {
			lines = append(lines, renderProfileEntry(profiles[i], innerW, i == cursor, i == onAir)...)
		}
	}

	if len(lines) > space {
		lines = lines[:space]
	}
	for len(lines) < space {
		lines = append(lines, "")
	}

	content := strings.Join(append(headerLines, lines...), "\n")
	rendered := StylePanelActive.Width(width - 2).Height(innerH).Render(content)
	return clampLines(rendered, height)
}

func renderProfileEntry(p beacon.Profile, maxW int, isCursor, isOnAir bool) []string {
	pointer := "  "
	if isCursor {
		pointer = ">>"
	}
	marker := " "
	if isOnAir {
		marker = "~"
	}

	name := p.DisplayName()
	if nameMax := maxW - 8; len(name) > nameMax && nameMax > 0 {
		name = name[:nameMax]
	}

	raw1 := fmt.Sprintf("%s %s %s", pointer, marker, name)
	raw2 := fmt.Sprintf("      %s  %d/%d  %ddBm", p.ShortID(), p.Major, p.Minor, p.Calibration)

	if isCursor {
		return []string{
			StyleCursorRow.Render(truncRaw(raw1, maxW)),
			StyleCursorRow.Render(truncRaw(raw2, maxW)),
			"",
		}
	}

	if isOnAir {
		marker = StyleOnAirMarker.Render(marker)
	}
	line1 := fmt.Sprintf("%s %s %s", pointer, marker, StyleProfileName.Render(name))
	line2 := StyleProfileID.Render(truncRaw(raw2, maxW))
	return []string{line1, line2, ""}
}
