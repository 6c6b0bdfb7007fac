package device

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/muurk/kasactl/internal/protocol"
)

// Plug is a single-relay smart plug or wall switch
type Plug struct {
	base
}

var (
	_ Device        = (*Plug)(nil)
	_ Dimmer        = (*Plug)(nil)
	_ LEDController = (*Plug)(nil)
	_ Metered       = (*Plug)(nil)
)

// NewPlug creates the plug capability set for host
func NewPlug(host string, q Querier) *Plug {
	return &Plug{base: base{
		host:         host,
		q:            q,
		timeModule:   protocol.ModuleTime,
		emeterModule: protocol.ModuleEmeter,
	}}
}

// IsOn reports the relay state
func (p *Plug) IsOn() (bool, error) {
	info, err := p.Sysinfo()
	if err != nil {
		return false, err
	}
	return boolField(info, "relay_state"), nil
}

// TurnOn closes the relay
func (p *Plug) TurnOn() error {
	return p.setRelay(true)
}

// TurnOff opens the relay
func (p *Plug) TurnOff() error {
	return p.setRelay(false)
}

func (p *Plug) setRelay(on bool, childIDs ...string) error {
	state := 0
	if on {
		state = 1
	}
	_, err := p.do(&protocol.Request{
		Module:   protocol.ModuleSystem,
		Method:   "set_relay_state",
		Args:     map[string]any{"state": state},
		ChildIDs: childIDs,
	})
	return err
}

// LED reports whether the status LED is lit
func (p *Plug) LED() (bool, error) {
	info, err := p.Sysinfo()
	if err != nil {
		return false, err
	}
	return !boolField(info, "led_off"), nil
}

// SetLED switches the status LED (night mode when off)
func (p *Plug) SetLED(on bool) error {
	off := 1
	if on {
		off = 0
	}
	_, err := p.query(protocol.ModuleSystem, "set_led_off", map[string]any{"off": off})
	return err
}

// IsDimmable reports whether the plug is a dimmer switch (HS220)
func (p *Plug) IsDimmable() (bool, error) {
	info, err := p.Sysinfo()
	if err != nil {
		return false, err
	}
	_, ok := info["brightness"]
	return ok, nil
}

// Brightness returns the dimmer level
func (p *Plug) Brightness() (int, error) {
	info, err := p.Sysinfo()
	if err != nil {
		return 0, err
	}
	level, ok := intField(info, "brightness")
	if !ok {
		return 0, fmt.Errorf("brightness: %w", ErrNotSupported)
	}
	return level, nil
}

// SetBrightness turns the dimmer on and sets its level (1-100)
func (p *Plug) SetBrightness(percent int) error {
	if err := ValidateBrightness(percent, 1); err != nil {
		return err
	}
	dimmable, err := p.IsDimmable()
	if err != nil {
		return err
	}
	if !dimmable {
		return fmt.Errorf("brightness: %w", ErrNotSupported)
	}
	if err := p.TurnOn(); err != nil {
		return err
	}
	_, err = p.query(protocol.ModuleDimmer, "set_brightness", map[string]any{"brightness": percent})
	return err
}

// HasEmeter reports whether the feature list contains the energy meter
func (p *Plug) HasEmeter() (bool, error) {
	info, err := p.Sysinfo()
	if err != nil {
		return false, err
	}
	return slices.Contains(strings.Split(stringField(info, "feature"), ":"), "ENE"), nil
}

// OnSince returns when the relay was last switched on
func (p *Plug) OnSince() (time.Time, error) {
	info, err := p.Sysinfo()
	if err != nil {
		return time.Time{}, err
	}
	return onSince(info), nil
}

func onSince(info map[string]any) time.Time {
	seconds, _ := intField(info, "on_time")
	return time.Now().Add(-time.Duration(seconds) * time.Second).Truncate(time.Second)
}

// Details returns LED, on-since and dimmer level
func (p *Plug) Details() ([]Detail, error) {
	info, err := p.Sysinfo()
	if err != nil {
		return nil, err
	}

	details := []Detail{
		{Name: "LED state", Value: onOff(!boolField(info, "led_off"))},
		{Name: "On since", Value: onSince(info).Format(time.DateTime)},
	}
	if level, ok := intField(info, "brightness"); ok {
		details = append(details, Detail{Name: "Brightness", Value: strconv.Itoa(level)})
	}
	return details, nil
}
