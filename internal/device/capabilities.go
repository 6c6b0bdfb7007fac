package device

import (
	"time"

	"github.com/muurk/kasactl/internal/discovery"
)

// Device is the capability set shared by every kind
type Device interface {
	// Sysinfo returns the live system.get_sysinfo object
	Sysinfo() (map[string]any, error)

	Alias() (string, error)
	SetAlias(alias string) error

	IsOn() (bool, error)
	TurnOn() error
	TurnOff() error

	// Time returns the device clock in the local time zone
	Time() (time.Time, error)

	Reboot(delay time.Duration) error

	// Raw calls any module/method and returns its result object
	Raw(module, method string, args map[string]any) (map[string]any, error)

	// Details returns kind-specific state for display
	Details() ([]Detail, error)
}

// Detail is one labeled state value
type Detail struct {
	Name  string
	Value string
}

// Dimmer is implemented by devices with adjustable brightness
type Dimmer interface {
	IsDimmable() (bool, error)
	Brightness() (int, error)
	SetBrightness(percent int) error
}

// ColorTemperature is implemented by bulbs with variable white temperature
type ColorTemperature interface {
	ColorTemp() (int, error)
	SetColorTemp(kelvin int) error
	// TemperatureRange returns the valid Kelvin range; ok is false when the
	// model is not in the known table
	TemperatureRange() (r KelvinRange, ok bool, err error)
}

// Colorer is implemented by color bulbs
type Colorer interface {
	IsColor() (bool, error)
	HSV() (HSV, error)
	SetHSV(hsv HSV) error
}

// LEDController is implemented by plugs with a status LED
type LEDController interface {
	LED() (bool, error)
	SetLED(on bool) error
}

// Metered is implemented by devices that may carry an energy meter
type Metered interface {
	HasEmeter() (bool, error)
	Realtime() (map[string]any, error)
	MonthlyStats(year int) (map[string]any, error)
	DailyStats(year, month int) (map[string]any, error)
	EraseStats() error
}

// MultiOutlet is implemented by strips. Indexes are 0-based.
type MultiOutlet interface {
	Outlets() ([]discovery.Outlet, error)
	TurnOnOutlet(index int) error
	TurnOffOutlet(index int) error
}

// HSV is a bulb color: hue in degrees, saturation and value in percent
type HSV struct {
	Hue        int
	Saturation int
	Value      int
}
