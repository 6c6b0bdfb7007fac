package device

import (
	"errors"
	"fmt"
	"time"

	"github.com/muurk/kasactl/internal/protocol"
)

// ErrNotSupported is returned for a capability the device lacks
var ErrNotSupported = errors.New("not supported by this device")

// base holds what every kind shares: the host, the querier and the
// module names that differ between plugs and bulbs.
type base struct {
	host         string
	q            Querier
	timeModule   string
	emeterModule string
}

func (b *base) query(module, method string, args map[string]any) (map[string]any, error) {
	return b.do(&protocol.Request{Module: module, Method: method, Args: args})
}

func (b *base) do(req *protocol.Request) (map[string]any, error) {
	res, err := b.q.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %s.%s: %w", b.host, req.Module, req.Method, err)
	}
	return res, nil
}

// Sysinfo returns the live system.get_sysinfo object
func (b *base) Sysinfo() (map[string]any, error) {
	return b.query(protocol.ModuleSystem, protocol.MethodGetSysinfo, nil)
}

// Alias returns the device alias
func (b *base) Alias() (string, error) {
	info, err := b.Sysinfo()
	if err != nil {
		return "", err
	}
	return stringField(info, "alias"), nil
}

// SetAlias renames the device
func (b *base) SetAlias(alias string) error {
	_, err := b.query(protocol.ModuleSystem, "set_dev_alias", map[string]any{"alias": alias})
	return err
}

// Time returns the device clock
func (b *base) Time() (time.Time, error) {
	res, err := b.query(b.timeModule, "get_time", nil)
	if err != nil {
		return time.Time{}, err
	}
	return parseDeviceTime(res)
}

// Reboot restarts the device after delay (whole seconds)
func (b *base) Reboot(delay time.Duration) error {
	_, err := b.query(protocol.ModuleSystem, "reboot", map[string]any{"delay": int(delay.Seconds())})
	return err
}

// Raw calls module.method with args
func (b *base) Raw(module, method string, args map[string]any) (map[string]any, error) {
	return b.query(module, method, args)
}

// Realtime returns the current emeter reading
func (b *base) Realtime() (map[string]any, error) {
	return b.query(b.emeterModule, "get_realtime", nil)
}

// MonthlyStats returns per-month consumption for year
func (b *base) MonthlyStats(year int) (map[string]any, error) {
	return b.query(b.emeterModule, "get_monthstat", map[string]any{"year": year})
}

// DailyStats returns per-day consumption for one month
func (b *base) DailyStats(year, month int) (map[string]any, error) {
	return b.query(b.emeterModule, "get_daystat", map[string]any{"year": year, "month": month})
}

// EraseStats clears the stored emeter history
func (b *base) EraseStats() error {
	_, err := b.query(b.emeterModule, "erase_emeter_stat", nil)
	return err
}

// parseDeviceTime converts a get_time result to a local time
func parseDeviceTime(res map[string]any) (time.Time, error) {
	var parts [6]int
	for i, key := range []string{"year", "month", "mday", "hour", "min", "sec"} {
		v, ok := intField(res, key)
		if !ok {
			return time.Time{}, fmt.Errorf("get_time result has no %q", key)
		}
		parts[i] = v
	}
	return time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], 0, time.Local), nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// intField reads a JSON number as int
func intField(m map[string]any, key string) (int, bool) {
	f, ok := m[key].(float64)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func boolField(m map[string]any, key string) bool {
	v, _ := intField(m, key)
	return v != 0
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
