package device

import (
	"fmt"
	"strconv"

	"github.com/muurk/kasactl/internal/protocol"
)

// Bulb is a smart bulb driven through the lighting service
type Bulb struct {
	base
}

var (
	_ Device           = (*Bulb)(nil)
	_ Dimmer           = (*Bulb)(nil)
	_ ColorTemperature = (*Bulb)(nil)
	_ Colorer          = (*Bulb)(nil)
	_ Metered          = (*Bulb)(nil)
)

// NewBulb creates the bulb capability set for host
func NewBulb(host string, q Querier) *Bulb {
	return &Bulb{base: base{
		host:         host,
		q:            q,
		timeModule:   protocol.ModuleBulbTime,
		emeterModule: protocol.ModuleBulbEmeter,
	}}
}

// LightState returns the raw get_light_state result
func (b *Bulb) LightState() (map[string]any, error) {
	return b.query(protocol.ModuleLighting, "get_light_state", nil)
}

// SetLightState sends a transition_light_state request
func (b *Bulb) SetLightState(state map[string]any) error {
	_, err := b.query(protocol.ModuleLighting, "transition_light_state", state)
	return err
}

// current returns the live state when on, else the default-on state the
// bulb will return to
func (b *Bulb) current() (map[string]any, error) {
	ls, err := b.LightState()
	if err != nil {
		return nil, err
	}
	if boolField(ls, "on_off") {
		return ls, nil
	}
	if dft, ok := ls["dft_on_state"].(map[string]any); ok {
		return dft, nil
	}
	return ls, nil
}

func (b *Bulb) feature(key string) (bool, error) {
	info, err := b.Sysinfo()
	if err != nil {
		return false, err
	}
	return boolField(info, key), nil
}

// IsOn reports the light state
func (b *Bulb) IsOn() (bool, error) {
	ls, err := b.LightState()
	if err != nil {
		return false, err
	}
	return boolField(ls, "on_off"), nil
}

// TurnOn switches the bulb on
func (b *Bulb) TurnOn() error {
	return b.SetLightState(map[string]any{"on_off": 1})
}

// TurnOff switches the bulb off
func (b *Bulb) TurnOff() error {
	return b.SetLightState(map[string]any{"on_off": 0})
}

// IsDimmable reports the is_dimmable sysinfo flag
func (b *Bulb) IsDimmable() (bool, error) {
	return b.feature("is_dimmable")
}

// IsColor reports the is_color sysinfo flag
func (b *Bulb) IsColor() (bool, error) {
	return b.feature("is_color")
}

// IsVariableColorTemp reports the is_variable_color_temp sysinfo flag
func (b *Bulb) IsVariableColorTemp() (bool, error) {
	return b.feature("is_variable_color_temp")
}

// Brightness returns the brightness in percent
func (b *Bulb) Brightness() (int, error) {
	state, err := b.current()
	if err != nil {
		return 0, err
	}
	level, _ := intField(state, "brightness")
	return level, nil
}

// SetBrightness sets the brightness (0-100)
func (b *Bulb) SetBrightness(percent int) error {
	if err := ValidateBrightness(percent, 0); err != nil {
		return err
	}
	if err := b.require("is_dimmable", "brightness"); err != nil {
		return err
	}
	return b.SetLightState(map[string]any{"brightness": percent})
}

// TemperatureRange returns the Kelvin range for the bulb model
func (b *Bulb) TemperatureRange() (KelvinRange, bool, error) {
	info, err := b.Sysinfo()
	if err != nil {
		return KelvinRange{}, false, err
	}
	if !boolField(info, "is_variable_color_temp") {
		return KelvinRange{}, false, nil
	}
	r, ok := KelvinRangeFor(stringField(info, "model"))
	return r, ok, nil
}

// ColorTemp returns the white temperature in Kelvin
func (b *Bulb) ColorTemp() (int, error) {
	if err := b.require("is_variable_color_temp", "color temperature"); err != nil {
		return 0, err
	}
	state, err := b.current()
	if err != nil {
		return 0, err
	}
	kelvin, _ := intField(state, "color_temp")
	return kelvin, nil
}

// SetColorTemp sets the white temperature within the model's range
func (b *Bulb) SetColorTemp(kelvin int) error {
	r, ok, err := b.TemperatureRange()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("color temperature: %w", ErrNotSupported)
	}
	if err := ValidateColorTemp(kelvin, r); err != nil {
		return err
	}
	return b.SetLightState(map[string]any{"color_temp": kelvin})
}

// HSV returns the current color
func (b *Bulb) HSV() (HSV, error) {
	if err := b.require("is_color", "color"); err != nil {
		return HSV{}, err
	}
	state, err := b.current()
	if err != nil {
		return HSV{}, err
	}
	h, _ := intField(state, "hue")
	s, _ := intField(state, "saturation")
	v, _ := intField(state, "brightness")
	return HSV{Hue: h, Saturation: s, Value: v}, nil
}

// SetHSV sets a color; color_temp 0 switches the bulb out of white mode
func (b *Bulb) SetHSV(hsv HSV) error {
	if err := ValidateHSV(hsv); err != nil {
		return err
	}
	if err := b.require("is_color", "color"); err != nil {
		return err
	}
	return b.SetLightState(map[string]any{
		"hue":        hsv.Hue,
		"saturation": hsv.Saturation,
		"brightness": hsv.Value,
		"color_temp": 0,
	})
}

// HasEmeter is always true for bulbs
func (b *Bulb) HasEmeter() (bool, error) {
	return true, nil
}

func (b *Bulb) require(flag, what string) error {
	ok, err := b.feature(flag)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w", what, ErrNotSupported)
	}
	return nil
}

// Details returns brightness, temperature and color as supported
func (b *Bulb) Details() ([]Detail, error) {
	info, err := b.Sysinfo()
	if err != nil {
		return nil, err
	}
	state, err := b.current()
	if err != nil {
		return nil, err
	}

	level, _ := intField(state, "brightness")
	details := []Detail{
		{Name: "Brightness", Value: strconv.Itoa(level)},
		{Name: "Is dimmable", Value: strconv.FormatBool(boolField(info, "is_dimmable"))},
	}

	if boolField(info, "is_variable_color_temp") {
		kelvin, _ := intField(state, "color_temp")
		details = append(details, Detail{Name: "Color temperature", Value: strconv.Itoa(kelvin)})
		if r, ok := KelvinRangeFor(stringField(info, "model")); ok {
			details = append(details, Detail{Name: "Valid temperature range", Value: fmt.Sprintf("%d-%d", r.Min, r.Max)})
		}
	}
	if boolField(info, "is_color") {
		h, _ := intField(state, "hue")
		s, _ := intField(state, "saturation")
		details = append(details, Detail{Name: "HSV", Value: fmt.Sprintf("%d %d %d", h, s, level)})
	}
	return details, nil
}
