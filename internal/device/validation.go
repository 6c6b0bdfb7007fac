package device

import (
	"github.com/muurk/kasactl/internal/discovery"
)

// ValidateBrightness checks a brightness percentage against [lowest, 100].
// Bulbs accept 0, dimmer plugs start at 1.
func ValidateBrightness(percent, lowest int) error {
	if percent < lowest || percent > 100 {
		return discovery.NewInvalidArgument("brightness must be %d-100, got %d", lowest, percent)
	}
	return nil
}

// ValidateHSV checks hue 0-360 and saturation/value 0-100
func ValidateHSV(hsv HSV) error {
	if hsv.Hue < 0 || hsv.Hue > 360 {
		return discovery.NewInvalidArgument("hue must be 0-360, got %d", hsv.Hue)
	}
	if hsv.Saturation < 0 || hsv.Saturation > 100 {
		return discovery.NewInvalidArgument("saturation must be 0-100, got %d", hsv.Saturation)
	}
	return ValidateBrightness(hsv.Value, 0)
}

// ValidateColorTemp checks kelvin against the model's range
func ValidateColorTemp(kelvin int, r KelvinRange) error {
	if !r.Contains(kelvin) {
		return discovery.NewInvalidArgument("temperature should be between %d and %d, got %d", r.Min, r.Max, kelvin)
	}
	return nil
}

// ValidateOutletIndex checks a 0-based outlet index
func ValidateOutletIndex(index, count int) error {
	if index < 0 || index >= count {
		return discovery.NewInvalidArgument("outlet %d does not exist (device has %d outlets, numbered from 1)", index+1, count)
	}
	return nil
}
