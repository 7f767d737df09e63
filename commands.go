package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"ble-beacon.klederson.com/internal/beacon"
	"ble-beacon.klederson.com/internal/bluetooth"
	"ble-beacon.klederson.com/internal/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const defaultSource = "built-in default"

// loadProfiles reads the profile file, falling back to the built-in default
// profile when the file cannot be opened.
func loadProfiles(s config.Settings) ([]beacon.Profile, string) {
	profiles, err := beacon.Load(s.BeaconsPath, s.MaxBeacons)
	if err != nil {
		log.Warn().Err(err).Str("path", s.BeaconsPath).Msg("using default beacon")
		return []beacon.Profile{beacon.DefaultProfile()}, defaultSource
	}
	log.Info().Str("path", s.BeaconsPath).Int("count", len(profiles)).Msg("beacons loaded")
	return profiles, s.BeaconsPath
}

func newEmitter(s config.Settings, demo bool) (*bluetooth.Emitter, error) {
	var adv bluetooth.Advertiser
	if demo {
		adv = bluetooth.NewMockAdvertiser()
	} else {
		adv = bluetooth.NewHardwareAdvertiser()
	}
	return bluetooth.NewEmitter(adv, bluetooth.ConfigFromSettings(s))
}

// profileTable renders profiles as a bordered table, one row per profile.
func profileTable(profiles []beacon.Profile) string {
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style { return cell }).
		Headers("IDX", "NAME", "UUID", "MAJOR", "MINOR", "RSSI_1M")
	for i, p := range profiles {
		t.Row(
			strconv.Itoa(i),
			p.DisplayName(),
			p.Identifier.String(),
			strconv.Itoa(int(p.Major)),
			strconv.Itoa(int(p.Minor)),
			strconv.Itoa(int(p.Calibration)),
		)
	}
	return t.String()
}

// pickProfile resolves an optional index argument, defaulting to 0.
func pickProfile(profiles []beacon.Profile, args []string) (beacon.Profile, error) {
	idx := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return beacon.Profile{}, fmt.Errorf("invalid index %q: %w", args[0], err)
		}
		idx = n
	}
	if idx < 0 || idx >= len(profiles) {
		return beacon.Profile{}, fmt.Errorf("index %d out of range (have %d profiles)", idx, len(profiles))
	}
	return profiles[idx], nil
}

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the loaded beacon profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, source := loadProfiles(opts.settings)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n", source)
			_, err := fmt.Fprintln(out, profileTable(profiles))
			return err
		},
	}
}

func newFrameCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "frame [index]",
		Short: "Print the advertising frame of a profile as hex",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, _ := loadProfiles(opts.settings)
			p, err := pickProfile(profiles, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), beacon.Encode(p))
			return nil
		},
	}
}

func newAdvertiseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "advertise [index]",
		Short: "Broadcast one profile until interrupted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, _ := loadProfiles(opts.settings)
			p, err := pickProfile(profiles, args)
			if err != nil {
				return err
			}

			emitter, err := newEmitter(opts.settings, opts.demo)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return advertise(ctx, emitter, p, cmd)
		},
	}
}

// advertise keeps p on air until ctx is done.
func advertise(ctx context.Context, emitter *bluetooth.Emitter, p beacon.Profile, cmd *cobra.Command) error {
	frame := beacon.Encode(p)
	if err := emitter.Emit(frame.Bytes()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Emulating %s (%d/%d), Ctrl+C to stop\n", p.DisplayName(), p.Major, p.Minor)

	<-ctx.Done()
	return emitter.Halt()
}
