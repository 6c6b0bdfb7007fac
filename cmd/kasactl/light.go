package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/muurk/kasactl/internal/device"
	"github.com/muurk/kasactl/internal/discovery"
)

// Bounds accepted on the command line; the device narrows them further
const (
	minKelvinArg = 2500
	maxKelvinArg = 9000
)

func intArg(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, discovery.NewInvalidArgument("%s must be a whole number, got %q", name, value)
	}
	return n, nil
}

func notSupported(h *device.Handle, what string) error {
	return fmt.Errorf("%s: %s: %w", h, what, device.ErrNotSupported)
}

func newBrightnessCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "brightness [0-100]",
		Short: "Get or set brightness",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.withDevice(func(h *device.Handle, args []string) error {
			dimmer, ok := h.Device().(device.Dimmer)
			if !ok {
				a.out.Println("This device does not support brightness.")
				return nil
			}
			dimmable, err := dimmer.IsDimmable()
			if err != nil {
				return err
			}
			if !dimmable {
				a.out.Println("This device does not support brightness.")
				return nil
			}

			if len(args) == 0 {
				level, err := dimmer.Brightness()
				if err != nil {
					return err
				}
				a.out.Printf("Brightness: %d\n", level)
				return nil
			}

			level, err := intArg("brightness", args[0])
			if err != nil {
				return err
			}
			if err := device.ValidateBrightness(level, 0); err != nil {
				return err
			}
			a.out.Printf("Setting brightness to %d\n", level)
			return dimmer.SetBrightness(level)
		}),
	}
}

func newTemperatureCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "temperature [2500-9000]",
		Short: "Get or set color temperature",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.withDevice(func(h *device.Handle, args []string) error {
			ct, ok := h.Device().(device.ColorTemperature)
			if !ok {
				return notSupported(h, "color temperature")
			}

			if len(args) == 0 {
				kelvin, err := ct.ColorTemp()
				if err != nil {
					return err
				}
				a.out.Printf("Color temperature: %d\n", kelvin)

				r, known, err := ct.TemperatureRange()
				if err != nil {
					return err
				}
				if known {
					a.out.Printf("(min: %d, max: %d)\n", r.Min, r.Max)
				} else {
					info, err := h.Device().Sysinfo()
					if err != nil {
						return err
					}
					a.out.Printf("Temperature range unknown for model '%s'\n", str(info, "model"))
				}
				return nil
			}

			kelvin, err := intArg("temperature", args[0])
			if err != nil {
				return err
			}
			if err := device.ValidateColorTemp(kelvin, device.KelvinRange{Min: minKelvinArg, Max: maxKelvinArg}); err != nil {
				return err
			}
			a.out.Printf("Setting color temperature to %d\n", kelvin)
			return ct.SetColorTemp(kelvin)
		}),
	}
}

func newHSVCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hsv [h s v]",
		Short: "Get or set color in HSV (bulb only)",
		Args:  cobra.MaximumNArgs(3),
		RunE: a.withDevice(func(h *device.Handle, args []string) error {
			colorer, ok := h.Device().(device.Colorer)
			if !ok {
				return notSupported(h, "color")
			}

			switch len(args) {
			case 0:
				hsv, err := colorer.HSV()
				if err != nil {
					return err
				}
				a.out.Printf("Current HSV: %d %d %d\n", hsv.Hue, hsv.Saturation, hsv.Value)
				return nil
			case 3:
			default:
				return discovery.NewInvalidArgument("setting a color requires 3 values, got %d", len(args))
			}

			var values [3]int
			for i, name := range []string{"hue", "saturation", "value"} {
				n, err := intArg(name, args[i])
				if err != nil {
					return err
				}
				values[i] = n
			}
			hsv := device.HSV{Hue: values[0], Saturation: values[1], Value: values[2]}
			if err := device.ValidateHSV(hsv); err != nil {
				return err
			}

			a.out.Printf("Setting HSV: %d %d %d\n", hsv.Hue, hsv.Saturation, hsv.Value)
			return colorer.SetHSV(hsv)
		}),
	}
}

func newLEDCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "led [true|false]",
		Short: "Get or set the plug's LED state",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.withDevice(func(h *device.Handle, args []string) error {
			led, ok := h.Device().(device.LEDController)
			if !ok {
				return notSupported(h, "LED")
			}

			if len(args) == 0 {
				on, err := led.LED()
				if err != nil {
					return err
				}
				a.out.Printf("LED state: %t\n", on)
				return nil
			}

			on, err := strconv.ParseBool(args[0])
			if err != nil {
				return discovery.NewInvalidArgument("LED state must be true or false, got %q", args[0])
			}
			a.out.Printf("Turning led to %t\n", on)
			return led.SetLED(on)
		}),
	}
}
