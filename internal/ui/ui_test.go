package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"ble-beacon.klederson.com/internal/beacon"
	"ble-beacon.klederson.com/internal/bluetooth"
	"github.com/charmbracelet/lipgloss"
)

func TestRenderProfileListHeight(t *testing.T) {
	profiles := make([]beacon.Profile, 12)
	for i := range profiles {
		profiles[i] = beacon.DefaultProfile()
	}

	out := RenderProfileList(profiles, 50, 20, 11, 3)
	if n := len(strings.Split(out, "\n")); n != 20 {
		t.Errorf("expected 20 lines, got %d", n)
	}
	if !strings.Contains(out, ">>") {
		t.Error("cursor entry scrolled out of view")
	}
	if !strings.Contains(out, "SELECT BEACON [12]") {
		t.Error("missing title")
	}
}

func TestRenderProfileListEmpty(t *testing.T) {
	out := RenderProfileList(nil, 40, 10, 0, -1)
	if !strings.Contains(out, "No beacons loaded") {
		t.Errorf("missing empty hint:\n%s", out)
	}
}

func TestRenderDetailPanel(t *testing.T) {
	p := beacon.DefaultProfile()
	out := RenderDetailPanel(DetailInfo{Profile: p, OnAir: true}, 70, 30)

	for _, want := range []string{"EMULATING BEACON", "Aula M4 (Default)", "...72ECE0", "-54 dBm", "Not heard yet", "4C 00 02 15"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail panel missing %q", want)
		}
	}
	if n := len(strings.Split(out, "\n")); n != 30 {
		t.Errorf("expected 30 lines, got %d", n)
	}

	if strings.Contains(out, "Interval") {
		t.Error("radio settings shown without a config")
	}

	radio := bluetooth.AdvertiseConfig{
		MinInterval: 100 * time.Millisecond,
		MaxInterval: 150 * time.Millisecond,
		PowerLevel:  "6dBm",
		AddressType: "random",
		Address:     "69:69:69:69:69:69",
	}
	withRadio := RenderDetailPanel(DetailInfo{Profile: p, OnAir: true, Radio: radio}, 70, 30)
	for _, want := range []string{"100-150ms", "69:69:69:69:69:69 (random)", "6dBm"} {
		if !strings.Contains(withRadio, want) {
			t.Errorf("detail panel missing radio setting %q", want)
		}
	}

	stopped := RenderDetailPanel(DetailInfo{Profile: p}, 70, 30)
	if !strings.Contains(stopped, "BEACON STOPPED") {
		t.Error("stopped heading missing")
	}
}

func TestRenderDetailPanelHeard(t *testing.T) {
	p := beacon.DefaultProfile()
	sg := &bluetooth.Sighting{Profile: p, RSSI: -60, Distance: 1.5, LastSeen: time.Now()}
	out := RenderDetailPanel(DetailInfo{Profile: p, OnAir: true, Heard: sg, RSSIHistory: []float64{-60, -55, -65}}, 70, 30)
	for _, want := range []string{"Signal", "~1.5m", "RSSI History"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail panel missing %q", want)
		}
	}
}

func TestRenderSightingList(t *testing.T) {
	p := beacon.DefaultProfile()
	sightings := []*bluetooth.Sighting{
		{Key: p.Key(), Profile: p, RSSI: -50, Distance: 0.6},
	}
	out := RenderSightingList(sightings, 40, 12, p.Key())
	if !strings.Contains(out, "HEARD [1]") || !strings.Contains(out, "(ours)") {
		t.Errorf("unexpected sighting list:\n%s", out)
	}

	idle := RenderSightingList(nil, 40, 12, "")
	if !strings.Contains(idle, "Listening...") {
		t.Errorf("missing idle hint:\n%s", idle)
	}
}

func TestBarsFillWidth(t *testing.T) {
	menu := RenderMenuBar(100, "hci0", MenuKeys(false), true)
	if w := lipgloss.Width(menu); w != 100 {
		t.Errorf("menu bar width %d, want 100", w)
	}
	if !strings.Contains(menu, "ON AIR") {
		t.Error("menu bar missing on-air state")
	}

	status := RenderStatusBar(100, StatusInfo{Profiles: 2, Source: "beacons.json", Err: errors.New("radio busy")})
	if !strings.Contains(status, "radio busy") || !strings.Contains(status, "[IDLE]") {
		t.Errorf("unexpected status bar %q", status)
	}
}

func TestWrapHex(t *testing.T) {
	lines := wrapHex("02 01 06 1A FF 4C", 9)
	if len(lines) != 2 || lines[0] != "02 01 06" || lines[1] != "1A FF 4C" {
		t.Errorf("unexpected wrap %q", lines)
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := renderSparkline([]float64{-80, -60, -40}, 10); got != "_-^" {
		t.Errorf("unexpected sparkline %q", got)
	}
	if got := renderSparkline([]float64{1, 2, 3, 4}, 2); len(got) != 2 {
		t.Errorf("sparkline not clipped to width: %q", got)
	}
}
