package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/kasactl/internal/device"
	"github.com/muurk/kasactl/internal/discovery"
	"github.com/muurk/kasactl/internal/ui"
)

type emeterOptions struct {
	year  int
	month string
	erase bool
	yes   bool
}

func newEmeterCmd(a *app) *cobra.Command {
	var opts emeterOptions

	cmd := &cobra.Command{
		Use:   "emeter",
		Short: "Query emeter for historical consumption",
		Long: `Show the energy meter reading of the device.

Without flags the current reading is shown. --year lists the consumption per
month of that year and --month (YYYY-MM) lists it per day. --erase deletes
the stored history.`,
		Example: `  kasactl --alias Heater emeter
  kasactl --alias Heater emeter --year 2026
  kasactl --alias Heater emeter --month 2026-01`,
		Args: cobra.NoArgs,
		RunE: a.withDevice(func(h *device.Handle, _ []string) error {
			return a.printEmeter(h, opts)
		}),
	}

	cmd.Flags().IntVar(&opts.year, "year", 0, "Show monthly consumption for this year")
	cmd.Flags().StringVar(&opts.month, "month", "", "Show daily consumption for this month (YYYY-MM)")
	cmd.Flags().BoolVar(&opts.erase, "erase", false, "Erase the stored statistics")
	cmd.Flags().BoolVar(&opts.yes, "yes", false, "Do not ask before erasing")
	cmd.MarkFlagsMutuallyExclusive("year", "month", "erase")
	return cmd
}

func (a *app) printEmeter(h *device.Handle, opts emeterOptions) error {
	a.out.Println(ui.RenderSection("Emeter"))

	m, ok := h.Device().(device.Metered)
	if ok {
		has, err := m.HasEmeter()
		if err != nil {
			return err
		}
		ok = has
	}
	if !ok {
		a.out.Println("Device has no emeter")
		return nil
	}

	if opts.erase {
		if !opts.yes && !ui.EraseStatsConfirmation(a.in, a.out.Writer(), h.Host()) {
			return nil
		}
		a.out.Println("Erasing emeter statistics..")
		return m.EraseStats()
	}

	var (
		stats map[string]any
		err   error
	)
	switch {
	case opts.year > 0:
		a.out.Println(ui.RenderSection(fmt.Sprintf("For year %d", opts.year)))
		stats, err = m.MonthlyStats(opts.year)

	case opts.month != "":
		month, perr := time.Parse("2006-01", opts.month)
		if perr != nil {
			return discovery.NewInvalidArgument("month must be YYYY-MM, got %q", opts.month)
		}
		a.out.Println(ui.RenderSection(fmt.Sprintf("For month %d of %d", int(month.Month()), month.Year())))
		stats, err = m.DailyStats(month.Year(), int(month.Month()))

	default:
		a.out.Println(ui.RenderSection("Current State"))
		stats, err = m.Realtime()
		if err == nil {
			if strip, isStrip := m.(device.MultiOutlet); isStrip {
				return a.printOutletReadings(strip, stats)
			}
		}
	}
	if err != nil {
		return err
	}
	return a.printJSON(stats)
}

// printOutletReadings prints per-outlet readings in outlet order
func (a *app) printOutletReadings(strip device.MultiOutlet, readings map[string]any) error {
	outlets, err := strip.Outlets()
	if err != nil {
		return err
	}
	for i, o := range outlets {
		a.out.Printf("Plug %d: %v\n", i+1, readings[o.ID])
	}
	return nil
}
