package ui

import (
	"fmt"

	"ble-beacon.klederson.com/internal/config"
	"github.com/charmbracelet/lipgloss"
)

// MenuKey is one key hint shown in the menu bar.
type MenuKey struct {
	Key, Label string
}

// MenuKeys returns the key hints for the menu or the detail view.
func MenuKeys(detail bool) []MenuKey {
	if detail {
		return []MenuKey{
			{"ESC", " back"},
			{"X", " stop"},
			{"Q", "uit"},
		}
	}
	return []MenuKey{
		{"ENTER", " emit"},
		{"X", " stop"},
		{"Q", "uit"},
	}
}

// RenderMenuBar renders the top menu bar.
func RenderMenuBar(width int, adapter string, keys []MenuKey, onAir bool) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)

	menu := ""
	for _, k := range keys {
		menu += "  " + StyleMenuKey.Render("["+k.Key+"]") + StyleMenuLabel.Render(k.Label)
	}

	status := StyleStatusIdle.Render("IDLE")
	if onAir {
		status = StyleStatusOnAir.Render("ON AIR")
	}

	adapterInfo := StyleMenuLabel.Render(fmt.Sprintf("Adapter: %s", adapter))

	left := StyleMenuKey.Render(title) + menu
	right := status + "  " + adapterInfo + " "

	return StyleMenuBar.Width(width).Render(fill(left, width-2-lipgloss.Width(right)) + right)
}
