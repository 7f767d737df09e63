package main

import (
	"fmt"
	"io"
	"os"

	"ble-beacon.klederson.com/internal/app"
	"ble-beacon.klederson.com/internal/config"
	"ble-beacon.klederson.com/internal/logging"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// options holds the command line flags shared by all commands.
type options struct {
	configPath string
	file       string
	max        int
	demo       bool
	adapter    string
	logFile    string
	logLevel   string

	settings config.Settings
	logClose func() error
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "ble-beacon",
		Short: "BLE Beacon - broadcast proximity beacon profiles from a text file",
		Long: `BLE Beacon loads beacon profiles (name, UUID, major, minor, RSSI at 1m)
from a loosely formatted JSON-like file and broadcasts the selected one as a
proximity beacon advertising frame.

Requires sudo or CAP_NET_ADMIN capability for real Bluetooth advertising.
Use --demo flag for demonstration mode without Bluetooth hardware.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.logClose != nil {
				return opts.logClose()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "TOML settings file")
	flags.StringVar(&opts.file, "file", "", "Beacon profile file (default "+config.DefaultBeaconsPath+")")
	flags.IntVar(&opts.max, "max", config.MaxBeacons, "Maximum number of profiles to load")
	flags.BoolVar(&opts.demo, "demo", false, "Run in demo mode with a simulated radio (no Bluetooth required)")
	flags.StringVar(&opts.adapter, "adapter", "hci0", "Adapter name shown in the menu bar (display only; the system default adapter is used)")
	flags.StringVar(&opts.logFile, "log-file", "", "Write logs to this file (the UI discards logs otherwise)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newListCmd(opts),
		newFrameCmd(opts),
		newAdvertiseCmd(opts),
	)
	return rootCmd
}

// setup resolves settings from the config file and flags, then initialises
// logging. The UI must not log to the terminal it draws on.
func (o *options) setup(cmd *cobra.Command) error {
	settings := config.DefaultSettings()
	if o.configPath != "" {
		s, err := config.LoadSettings(o.configPath)
		if err != nil {
			return err
		}
		settings = s
	}
	if cmd.Flags().Changed("file") {
		settings.BeaconsPath = o.file
	}
	if cmd.Flags().Changed("max") {
		settings.MaxBeacons = o.max
	}
	if cmd.Flags().Changed("log-level") {
		settings.LogLevel = o.logLevel
	}
	o.settings = settings

	var w io.Writer = cmd.ErrOrStderr()
	if o.logFile != "" {
		f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		w = f
		o.logClose = f.Close
	} else if cmd.Parent() == nil {
		w = io.Discard
	}
	logging.Init(w, config.AppName, settings.LogLevel)
	return nil
}

func runUI(cmd *cobra.Command, opts *options) error {
	profiles, source := loadProfiles(opts.settings)

	emitter, err := newEmitter(opts.settings, opts.demo)
	if err != nil {
		return err
	}

	model := app.New(app.Options{
		Profiles: profiles,
		Source:   source,
		DemoMode: opts.demo,
		Adapter:  opts.adapter,
		Emitter:  emitter,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithFPS(config.TargetFPS),
	)

	// Start the watcher with reference to the tea program
	if err := model.StartWatcher(p); err != nil {
		if !opts.demo {
			stderr := cmd.ErrOrStderr()
			fmt.Fprintf(stderr, "\nError: %v\n\n", err)
			fmt.Fprintln(stderr, "Bluetooth advertising requires elevated permissions.")
			fmt.Fprintln(stderr, "Try one of:")
			fmt.Fprintln(stderr, "  sudo ./ble-beacon")
			fmt.Fprintln(stderr, "  sudo setcap cap_net_admin+ep ./ble-beacon")
			fmt.Fprintln(stderr, "  ./ble-beacon --demo    (demo mode, no hardware needed)")
			return err
		}
	}

	_, err = p.Run()
	_ = emitter.Halt()
	return err
}
