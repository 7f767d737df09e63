package app

import (
	"time"

	"ble-beacon.klederson.com/internal/beacon"
	"ble-beacon.klederson.com/internal/bluetooth"
	"ble-beacon.klederson.com/internal/config"
	"ble-beacon.klederson.com/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
)

// watcher is implemented by the real and the mock beacon watchers.
type watcher interface {
	Start(s bluetooth.Sender) error
	Stop()
}

type view int

const (
	viewMenu view = iota
	viewDetail
)

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	store   *bluetooth.SightingStore
	history *SignalHistory
	emitter *bluetooth.Emitter
	watcher watcher
}

// Options configure a new AppModel.
type Options struct {
	Profiles []beacon.Profile
	Source   string // where the profiles came from, for the status bar
	DemoMode bool
	Adapter  string
	Emitter  *bluetooth.Emitter
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	width  int
	height int

	demoMode bool
	adapter  string
	source   string

	profiles []beacon.Profile
	cursor   int
	onAir    int // index of the profile on air, -1 if none
	view     view
	err      error

	shared *shared

	// Cached snapshot
	sightings []*bluetooth.Sighting
}

// New creates a new AppModel.
func New(opts Options) AppModel {
	return AppModel{
		demoMode: opts.DemoMode,
		adapter:  opts.Adapter,
		source:   opts.Source,
		profiles: opts.Profiles,
		onAir:    -1,
		shared: &shared{
			store:   bluetooth.NewSightingStore(),
			history: NewSignalHistory(config.HistoryLen),
			emitter: opts.Emitter,
		},
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		evictCmd(),
	)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		m.sightings = m.shared.store.Snapshot()
		return m, tickCmd()

	case EvictMsg:
		if n := m.shared.store.Evict(config.SightingTimeout); n > 0 {
			keep := make(map[string]bool)
			for _, sg := range m.shared.store.Snapshot() {
				keep[sg.Key] = true
			}
			m.shared.history.Retain(keep)
		}
		return m, evictCmd()

	case bluetooth.SightingMsg:
		sg := m.shared.store.Upsert(msg)
		m.shared.history.Push(sg.Key, sg.RSSI)
		return m, nil
	}

	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		m.shutdown()
		return m, tea.Quit

	case "x", "X":
		m.halt()
		return m, nil
	}

	if m.view == viewDetail {
		switch msg.String() {
		case "esc", "backspace", "left", "h":
			m.view = viewMenu
		}
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.profiles)-1 {
			m.cursor++
		}

	case "home":
		m.cursor = 0

	case "end":
		if len(m.profiles) > 0 {
			m.cursor = len(m.profiles) - 1
		}

	case "enter", " ", "right", "l":
		m.emit(m.cursor)
	}

	return m, nil
}

// emit puts profile i on air and switches to the detail view.
func (m *AppModel) emit(i int) {
	if i < 0 || i >= len(m.profiles) {
		return
	}
	p := m.profiles[i]
	frame := beacon.Encode(p)
	if err := m.shared.emitter.Emit(frame.Bytes()); err != nil {
		log.Error().Err(err).Str("beacon", p.DisplayName()).Msg("emit failed")
		m.err = err
		m.onAir = -1
		return
	}
	log.Info().
		Str("beacon", p.DisplayName()).
		Str("uuid", p.Identifier.String()).
		Uint16("major", p.Major).
		Uint16("minor", p.Minor).
		Int8("rssi_1m", p.Calibration).
		Msg("emulating beacon")
	m.err = nil
	m.onAir = i
	m.view = viewDetail
}

func (m *AppModel) halt() {
	if err := m.shared.emitter.Halt(); err != nil {
		log.Error().Err(err).Msg("halt failed")
		m.err = err
		return
	}
	m.err = nil
	m.onAir = -1
}

func (m *AppModel) shutdown() {
	m.halt()
	if m.shared.watcher != nil {
		m.shared.watcher.Stop()
	}
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading beacons..."
	}

	bodyH := m.height - 2
	if bodyH < 5 {
		bodyH = 5
	}

	mainW := m.width * 3 / 5
	if mainW < 30 {
		mainW = 30
	}
	sideW := m.width - mainW
	if sideW < 15 {
		sideW = 15
		mainW = m.width - sideW
	}

	onAir := m.shared.emitter.Active()
	menuBar := ui.RenderMenuBar(m.width, m.adapter, ui.MenuKeys(m.view == viewDetail), onAir)

	var ownKey string
	var mainPanel string
	if m.view == viewDetail && m.cursor < len(m.profiles) {
		p := m.profiles[m.cursor]
		info := ui.DetailInfo{
			Profile: p,
			OnAir:   onAir && m.onAir == m.cursor,
			Radio:   m.shared.emitter.Config(),
		}
		if info.OnAir {
			ownKey = p.Key()
			info.Heard = m.findSighting(ownKey)
			info.RSSIHistory = m.shared.history.Values(ownKey)
		}
		mainPanel = ui.RenderDetailPanel(info, mainW, bodyH)
	} else {
		mainPanel = ui.RenderProfileList(m.profiles, mainW, bodyH, m.cursor, m.onAir)
	}
	if ownKey == "" && onAir && m.onAir >= 0 && m.onAir < len(m.profiles) {
		ownKey = m.profiles[m.onAir].Key()
	}

	sidePanel := ui.RenderSightingList(m.sightings, sideW, bodyH, ownKey)

	statusBar := ui.RenderStatusBar(m.width, ui.StatusInfo{
		OnAir:     onAir,
		Profiles:  len(m.profiles),
		Sightings: len(m.sightings),
		Source:    m.source,
		Err:       m.err,
	})

	return ui.ComposeLayout(menuBar, mainPanel, sidePanel, statusBar)
}

func (m AppModel) findSighting(key string) *bluetooth.Sighting {
	for _, sg := range m.sightings {
		if sg.Key == key {
			return sg
		}
	}
	return nil
}

// StartWatcher starts the beacon watcher. Must be called before p.Run().
func (m *AppModel) StartWatcher(s bluetooth.Sender) error {
	if m.demoMode {
		m.shared.watcher = bluetooth.NewMockWatcher(m.shared.emitter.Current)
	} else {
		m.shared.watcher = bluetooth.NewWatcher()
	}
	return m.shared.watcher.Start(s)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(config.TargetFPS), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func evictCmd() tea.Cmd {
	return tea.Tick(config.EvictInterval, func(t time.Time) tea.Msg {
		return EvictMsg(t)
	})
}
