package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/muurk/kasactl/internal/device"
	"github.com/muurk/kasactl/internal/discovery"
	"github.com/muurk/kasactl/internal/ui"
)

func newStateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Print out device state and versions",
		Args:  cobra.NoArgs,
		RunE: a.withDevice(func(h *device.Handle, _ []string) error {
			return a.printState(h)
		}),
	}
}

// printState prints the state block followed by the emeter reading
func (a *app) printState(h *device.Handle) error {
	dev := h.Device()

	info, err := dev.Sysinfo()
	if err != nil {
		return err
	}
	on, err := dev.IsOn()
	if err != nil {
		return err
	}

	a.out.Println(ui.RenderSection(fmt.Sprintf("%s - %s", str(info, "alias"), str(info, "model"))))
	a.out.Println("Device state: " + ui.RenderState(on))

	fields := []ui.Field{{Key: "Host/IP", Value: h.Host()}}
	details, err := dev.Details()
	if err != nil {
		return err
	}
	for _, d := range details {
		fields = append(fields, ui.Field{Key: d.Name, Value: d.Value})
	}
	a.out.Println(ui.RenderFields(fields))

	now, err := dev.Time()
	if err != nil {
		return err
	}

	mac := str(info, "mac")
	if mac == "" {
		mac = str(info, "mic_mac")
	}

	a.out.Println(ui.RenderSection("Generic information"))
	a.out.Println(ui.RenderFields([]ui.Field{
		{Key: "Time", Value: now.Format(time.DateTime)},
		{Key: "Hardware", Value: str(info, "hw_ver")},
		{Key: "Software", Value: str(info, "sw_ver")},
		{Key: "MAC (rssi)", Value: fmt.Sprintf("%s (%v)", mac, info["rssi"])},
		{Key: "Location", Value: location(info)},
	}))

	return a.printEmeter(h, emeterOptions{})
}

// location formats the coordinates a device reports, in either the float
// or the scaled integer form
func location(info map[string]any) string {
	lat, latOK := info["latitude"].(float64)
	lon, lonOK := info["longitude"].(float64)
	if !latOK || !lonOK {
		latI, latOK := info["latitude_i"].(float64)
		lonI, lonOK := info["longitude_i"].(float64)
		if !latOK || !lonOK {
			return "unknown"
		}
		lat, lon = latI/10000, lonI/10000
	}
	return fmt.Sprintf("%.4f, %.4f", lat, lon)
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func newSysinfoCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "sysinfo",
		Short: "Print out full system information",
		Args:  cobra.NoArgs,
		RunE: a.withDevice(func(h *device.Handle, _ []string) error {
			info, err := h.Device().Sysinfo()
			if err != nil {
				return err
			}
			if format == "yaml" {
				data, err := yaml.Marshal(info)
				if err != nil {
					return fmt.Errorf("failed to encode yaml: %w", err)
				}
				a.out.Print(string(data))
				return nil
			}
			a.out.Println(ui.RenderSection("System info"))
			return a.printJSON(info)
		}),
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format (json, yaml)")
	return cmd
}

func (a *app) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	a.out.Println(string(data))
	return nil
}

func newAliasCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "alias [new-alias]",
		Short: "Get or set the device alias",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.withDevice(func(h *device.Handle, args []string) error {
			dev := h.Device()
			if len(args) == 1 {
				a.out.Printf("Setting alias to %s\n", args[0])
				if err := dev.SetAlias(args[0]); err != nil {
					return err
				}
			}
			alias, err := dev.Alias()
			if err != nil {
				return err
			}
			a.out.Printf("Alias: %s\n", alias)
			return nil
		}),
	}
}

func newRawCommandCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "raw-command <module> <command> [json-params]",
		Short: "Run a raw command on the device",
		Example: `  kasactl --host 192.168.1.10 raw-command system get_sysinfo
  kasactl --host 192.168.1.10 raw-command system set_dev_alias '{"alias":"Desk"}'`,
		Args: cobra.RangeArgs(2, 3),
		RunE: a.withDevice(func(h *device.Handle, args []string) error {
			var params map[string]any
			if len(args) == 3 {
				if err := json.Unmarshal([]byte(args[2]), &params); err != nil {
					return discovery.NewInvalidArgument("parameters must be a JSON object: %v", err)
				}
			}
			res, err := h.Device().Raw(args[0], args[1], params)
			if err != nil {
				return err
			}
			return a.printJSON(res)
		}),
	}
}

func newTimeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "time",
		Short: "Get the device time",
		Args:  cobra.NoArgs,
		RunE: a.withDevice(func(h *device.Handle, _ []string) error {
			t, err := h.Device().Time()
			if err != nil {
				return err
			}
			a.out.Println(t.Format(time.DateTime))
			return nil
		}),
	}
}

// newPowerCmd builds "on" or "off". The optional index selects a strip
// outlet, counted from 1.
func newPowerCmd(a *app, on bool) *cobra.Command {
	use, short, progress := "off [index]", "Turn the device off", "Turning off.."
	if on {
		use, short, progress = "on [index]", "Turn the device on", "Turning on.."
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: a.withDevice(func(h *device.Handle, args []string) error {
			a.out.Println(progress)
			dev := h.Device()

			if len(args) == 0 {
				if on {
					return dev.TurnOn()
				}
				return dev.TurnOff()
			}

			index, err := strconv.Atoi(args[0])
			if err != nil {
				return discovery.NewInvalidArgument("outlet index must be a number, got %q", args[0])
			}
			strip, ok := dev.(device.MultiOutlet)
			if !ok {
				return discovery.NewInvalidArgument("%s has no outlets; omit the index", h)
			}
			if on {
				return strip.TurnOnOutlet(index - 1)
			}
			return strip.TurnOffOutlet(index - 1)
		}),
	}
}

func newRebootCmd(a *app) *cobra.Command {
	var delay int

	cmd := &cobra.Command{
		Use:   "reboot",
		Short: "Reboot the device",
		Args:  cobra.NoArgs,
		RunE: a.withDevice(func(h *device.Handle, _ []string) error {
			if delay < 0 {
				return discovery.NewInvalidArgument("delay must not be negative, got %d", delay)
			}
			a.out.Println("Rebooting the device..")
			return h.Device().Reboot(time.Duration(delay) * time.Second)
		}),
	}

	cmd.Flags().IntVar(&delay, "delay", 1, "Seconds to wait before rebooting")
	return cmd
}
