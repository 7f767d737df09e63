package ui

import (
	"fmt"
	"strings"

	"ble-beacon.klederson.com/internal/bluetooth"
)

// RenderSightingList renders the beacons heard on air. The sighting whose key
// equals ownKey is flagged as our own broadcast.
func RenderSightingList(sightings []*bluetooth.Sighting, width, height int, ownKey string) string {
	innerW := width - 4
	if innerW < 10 {
		innerW = 10
	}

	title := StylePanelTitle.Render(fmt.Sprintf("HEARD [%d]", len(sightings)))
	separator := StyleSeparator.Render(strings.Repeat("-", innerW))
	headerLines := []string{title, separator}

	innerH := height - 2
	if innerH < len(headerLines)+1 {
		innerH = len(headerLines) + 1
	}
	space := innerH - len(headerLines)

	var lines []string
	if len(sightings) == 0 {
		lines = append(lines, "", StyleHelp.Render(" Listening..."))
	}
	for _, sg := range sightings {
		if len(lines) >= space {
			break
		}
		lines = append(lines, renderSightingEntry(sg, innerW, sg.Key == ownKey)...)
	}

	if len(lines) > space {
		lines = lines[:space]
	}
	for len(lines) < space {
		lines = append(lines, "")
	}

	content := strings.Join(append(headerLines, lines...), "\n")
	rendered := StylePanelBorder.Width(width - 2).Height(innerH).Render(content)
	return clampLines(rendered, height)
}

func renderSightingEntry(sg *bluetooth.Sighting, maxW int, own bool) []string {
	tag := ""
	if own {
		tag = " (ours)"
	}
	name := truncRaw(sg.DisplayName()+tag, maxW-2)
	stats := fmt.Sprintf("  %d/%d %ddBm ~%.1fm", sg.Profile.Major, sg.Profile.Minor, int(sg.RSSI), sg.Distance)

	nameSty := StyleBeacon
	if own {
		nameSty = StyleOnAirMarker
	}
	return []string{
		"  " + nameSty.Render(strings.TrimRight(name, " ")),
		StyleLabel.Render(truncRaw(stats, maxW)),
		"",
	}
}
