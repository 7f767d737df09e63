package ui

import "fmt"

// StatusInfo is what the status bar shows.
type StatusInfo struct {
	OnAir     bool
	Profiles  int
	Sightings int
	Source    string
	Err       error
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	status := StyleStatusIdle.Render("[IDLE]")
	if info.OnAir {
		status = StyleStatusOnAir.Render("[BROADCASTING]")
	}

	text := fmt.Sprintf(" Profiles: %d  Heard: %d  Source: %s", info.Profiles, info.Sightings, info.Source)
	content := status + StyleStatusBar.Render(text)
	if info.Err != nil {
		content += "  " + StyleError.Render(info.Err.Error())
	}

	return StyleStatusBar.Width(width).Render(fill(content, width-2))
}
