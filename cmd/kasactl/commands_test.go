package main

import (
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/kasactl/internal/discovery"
)

func homeNetwork() map[string]*fakeDevice {
	return map[string]*fakeDevice{
		"10.0.0.5": kitchenPlug(),
		"10.0.0.7": officeStrip(),
	}
}

func TestState_TypedHost(t *testing.T) {
	env := newTestEnv(t, homeNetwork())

	require.NoError(t, env.run("--host", "10.0.0.5", "--plug", "state"))

	out := env.output()
	assert.Contains(t, out, "== Kitchen - HS110(EU) ==")
	assert.Contains(t, out, "Device state: ON")
	assert.Contains(t, out, "Host/IP:")
	assert.Contains(t, out, "LED state:")
	assert.Contains(t, out, "== Generic information ==")
	assert.Contains(t, out, "2026-10-19 08:30:00")
	assert.Contains(t, out, "50:C7:BF:00:00:01 (-52)")
	assert.Contains(t, out, "51.5072, -0.1275")
	assert.Contains(t, out, "== Emeter ==")
	assert.Contains(t, out, `"power_mw": 12500`)
	assert.Zero(t, env.probeCount(), "a kind hint must not probe")
}

func TestState_StripListsOutlets(t *testing.T) {
	env := newTestEnv(t, homeNetwork())

	require.NoError(t, env.run("--host", "10.0.0.7", "state"))

	out := env.output()
	assert.Contains(t, out, "Outlet 1 (Monitor):")
	assert.Contains(t, out, "Outlet 2 (Lamp):")
	assert.Contains(t, out, "Plug 1:")
	assert.Contains(t, out, "Plug 2:")
	assert.Equal(t, 1, env.probeCount(), "auto-detect sends one unicast probe")
}

func TestRoot_NoSelectionDiscovers(t *testing.T) {
	env := newTestEnv(t, homeNetwork())

	require.NoError(t, env.run())

	out := env.output()
	assert.Contains(t, out, "No host name given, trying discovery..")
	assert.Contains(t, out, "== Kitchen - HS110(EU) ==")
	assert.Contains(t, out, "== Office - HS300(US) ==")
}

func TestRoot_HostShowsState(t *testing.T) {
	env := newTestEnv(t, homeNetwork())

	require.NoError(t, env.run("--host", "10.0.0.5"))
	assert.Contains(t, env.output(), "== Kitchen - HS110(EU) ==")
}

func TestDiscover_DiscoverOnly(t *testing.T) {
	env := newTestEnv(t, homeNetwork())

	require.NoError(t, env.run("discover", "--discover-only", "--timeout", "1s"))

	out := env.output()
	assert.Contains(t, out, "Discovering devices for 1s")
	assert.Contains(t, out, "ADDRESS")
	assert.Contains(t, out, "Kitchen")
	assert.Contains(t, out, "strip (2)")
	assert.NotContains(t, out, "== Generic information ==")
}

func TestDiscover_DumpRaw(t *testing.T) {
	env := newTestEnv(t, map[string]*fakeDevice{"10.0.0.5": kitchenPlug()})

	require.NoError(t, env.run("discover", "--dump-raw"))
	assert.Contains(t, env.output(), `"get_sysinfo"`)
}

func TestDiscover_NoDevices(t *testing.T) {
	env := newTestEnv(t, nil)

	require.NoError(t, env.run("discover"))
	assert.Contains(t, env.output(), "No devices answered")
}

func TestDumpDiscover_WritesFiles(t *testing.T) {
	tests := []struct {
		format string
		file   string
		want   string
	}{
		{format: "json", file: "HS110(EU)_2.0.json", want: `"alias": "Kitchen"`},
		{format: "yaml", file: "HS110(EU)_2.0.yaml", want: "alias: Kitchen"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			env := newTestEnv(t, map[string]*fakeDevice{"10.0.0.5": kitchenPlug()})
			dir := t.TempDir()

			require.NoError(t, env.run("dump-discover", "--save", dir, "--format", tt.format))

			data, err := os.ReadFile(filepath.Join(dir, tt.file))
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.want)
			assert.Contains(t, env.output(), "Saving info to")
		})
	}
}

func TestDumpDiscover_RejectsFormat(t *testing.T) {
	env := newTestEnv(t, homeNetwork())

	err := env.run("dump-discover", "--format", "xml")
	assert.True(t, discovery.IsInvalidArgument(err))
	assert.Zero(t, env.probeCount())
}

func TestAlias_LookupThenCommand(t *testing.T) {
	network := homeNetwork()
	env := newTestEnv(t, network)

	require.NoError(t, env.run("--alias", "kitchen", "on"))

	assert.Contains(t, env.output(), "Turning on..")
	sent := network["10.0.0.5"].sent("set_relay_state")
	require.Len(t, sent, 1)
	assert.Equal(t, map[string]any{"state": 1}, sent[0].Args)
	assert.Equal(t, 2, env.probeCount(), "one alias round plus one detect probe")
}

func TestAlias_NotFoundAfterEveryAttempt(t *testing.T) {
	env := newTestEnv(t, homeNetwork())

	err := env.run("--alias", "Garage", "--attempts", "2", "state")
	require.Error(t, err)
	assert.True(t, discovery.IsNotFound(err))

	var re *discovery.ResolveError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 2, re.Attempts)
	assert.Equal(t, 2, env.probeCount())
}

func TestOnlyDevice_Ambiguous(t *testing.T) {
	env := newTestEnv(t, homeNetwork())

	err := env.run("time")
	require.Error(t, err)
	assert.True(t, discovery.IsAmbiguousMatch(err))
}

func TestOnlyDevice_Single(t *testing.T) {
	env := newTestEnv(t, map[string]*fakeDevice{"10.0.0.5": kitchenPlug()})

	require.NoError(t, env.run("time"))
	assert.Contains(t, env.output(), "2026-10-19 08:30:00")
}

func TestHostAndAliasAreExclusive(t *testing.T) {
	env := newTestEnv(t, homeNetwork())

	err := env.run("--host", "10.0.0.5", "--alias", "Kitchen", "state")
	assert.Error(t, err)
	assert.Zero(t, env.probeCount())
}

func TestKindFlagsAreExclusive(t *testing.T) {
	env := newTestEnv(t, homeNetwork())

	assert.Error(t, env.run("--host", "10.0.0.5", "--plug", "--bulb", "state"))
}

func TestDeprecatedIPFlag(t *testing.T) {
	env := newTestEnv(t, homeNetwork())

	require.NoError(t, env.run("--ip", "10.0.0.5", "--plug", "alias"))
	assert.Contains(t, env.output(), "Alias: Kitchen")
}

func TestLegacyHostEnvironment(t *testing.T) {
	env := newTestEnv(t, homeNetwork())
	t.Setenv("PYHS100_HOST", "10.0.0.5")

	require.NoError(t, env.run("--plug", "time"))
	assert.Contains(t, env.output(), "2026-10-19 08:30:00")
}

func TestPower_StripOutletIsOneBased(t *testing.T) {
	network := homeNetwork()
	env := newTestEnv(t, network)

	require.NoError(t, env.run("--host", "10.0.0.7", "--strip", "off", "2"))

	sent := network["10.0.0.7"].sent("set_relay_state")
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"8006-01"}, sent[0].ChildIDs)
	assert.Equal(t, map[string]any{"state": 0}, sent[0].Args)
}

func TestPower_IndexErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "plug has no outlets", args: []string{"--host", "10.0.0.5", "--plug", "on", "1"}},
		{name: "outlet out of range", args: []string{"--host", "10.0.0.7", "--strip", "on", "3"}},
		{name: "index not a number", args: []string{"--host", "10.0.0.7", "--strip", "on", "two"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, homeNetwork())
			err := env.run(tt.args...)
			assert.True(t, discovery.IsInvalidArgument(err), "got %v", err)
		})
	}
}

func TestAlias_Set(t *testing.T) {
	network := homeNetwork()
	env := newTestEnv(t, network)

	require.NoError(t, env.run("--host", "10.0.0.5", "--plug", "alias", "Desk"))

	sent := network["10.0.0.5"].sent("set_dev_alias")
	require.Len(t, sent, 1)
	assert.Equal(t, map[string]any{"alias": "Desk"}, sent[0].Args)
	assert.Contains(t, env.output(), "Setting alias to Desk")
}

func TestRawCommand(t *testing.T) {
	network := homeNetwork()
	env := newTestEnv(t, network)

	require.NoError(t, env.run("--host", "10.0.0.5", "--plug", "raw-command", "system", "set_led_off", `{"off":1}`))
	sent := network["10.0.0.5"].sent("set_led_off")
	require.Len(t, sent, 1)
	assert.Equal(t, map[string]any{"off": float64(1)}, sent[0].Args)

	err := env.run("--host", "10.0.0.5", "--plug", "raw-command", "system", "set_led_off", "{off:1}")
	assert.True(t, discovery.IsInvalidArgument(err))
}

func TestSysinfo_Formats(t *testing.T) {
	env := newTestEnv(t, homeNetwork())

	require.NoError(t, env.run("--host", "10.0.0.5", "--plug", "sysinfo"))
	assert.Contains(t, env.output(), "== System info ==")
	assert.Contains(t, env.output(), `"model": "HS110(EU)"`)

	env.out.Reset()
	require.NoError(t, env.run("--host", "10.0.0.5", "--plug", "sysinfo", "--format", "yaml"))
	assert.Contains(t, env.output(), "model: HS110(EU)")
}

func TestEmeter_Month(t *testing.T) {
	network := homeNetwork()
	env := newTestEnv(t, network)

	require.NoError(t, env.run("--host", "10.0.0.5", "--plug", "emeter", "--month", "2026-01"))

	assert.Contains(t, env.output(), "== For month 1 of 2026 ==")
	sent := network["10.0.0.5"].sent("get_daystat")
	require.Len(t, sent, 1)
	assert.Equal(t, map[string]any{"year": 2026, "month": 1}, sent[0].Args)

	err := env.run("--host", "10.0.0.5", "--plug", "emeter", "--month", "January")
	assert.True(t, discovery.IsInvalidArgument(err))
}

func TestEmeter_EraseNeedsConfirmation(t *testing.T) {
	network := homeNetwork()
	env := newTestEnv(t, network)

	require.NoError(t, env.run("--host", "10.0.0.5", "--plug", "emeter", "--erase"))
	assert.Empty(t, network["10.0.0.5"].sent("erase_emeter_stat"))
	assert.Contains(t, env.output(), "Operation cancelled.")

	require.NoError(t, env.run("--host", "10.0.0.5", "--plug", "emeter", "--erase", "--yes"))
	assert.Len(t, network["10.0.0.5"].sent("erase_emeter_stat"), 1)
}

func TestEmeter_NoMeter(t *testing.T) {
	plug := kitchenPlug()
	plug.sysinfo["feature"] = "TIM"
	env := newTestEnv(t, map[string]*fakeDevice{"10.0.0.5": plug})

	require.NoError(t, env.run("--host", "10.0.0.5", "--plug", "emeter"))
	assert.Contains(t, env.output(), "Device has no emeter")
}

func TestBrightness_NotDimmable(t *testing.T) {
	env := newTestEnv(t, homeNetwork())

	require.NoError(t, env.run("--host", "10.0.0.5", "--plug", "brightness", "50"))
	assert.Contains(t, env.output(), "This device does not support brightness.")
}

func TestHSV_NeedsThreeValues(t *testing.T) {
	env := newTestEnv(t, homeNetwork())

	err := env.run("--host", "10.0.0.9", "--bulb", "hsv", "120", "50")
	assert.True(t, discovery.IsInvalidArgument(err))
	assert.Zero(t, env.probeCount())
}

func TestLED_Set(t *testing.T) {
	network := homeNetwork()
	env := newTestEnv(t, network)

	require.NoError(t, env.run("--host", "10.0.0.5", "--plug", "led", "false"))

	sent := network["10.0.0.5"].sent("set_led_off")
	require.Len(t, sent, 1)
	assert.Equal(t, map[string]any{"off": 1}, sent[0].Args)
}

func TestReboot_Delay(t *testing.T) {
	network := homeNetwork()
	env := newTestEnv(t, network)

	require.NoError(t, env.run("--host", "10.0.0.5", "--plug", "reboot", "--delay", "3"))

	sent := network["10.0.0.5"].sent("reboot")
	require.Len(t, sent, 1)
	assert.Equal(t, map[string]any{"delay": 3}, sent[0].Args)
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t, nil)

	require.NoError(t, env.run("version"))
	assert.Contains(t, env.output(), "kasactl ")
}

func TestInvalidConfigValue(t *testing.T) {
	env := newTestEnv(t, homeNetwork())

	err := env.run("--attempts", "0", "--host", "10.0.0.5", "state")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attempts must be at least 1")
}

func TestDumpFileName(t *testing.T) {
	d := discovery.Descriptor{Addr: netip.MustParseAddr("10.0.0.5"), Model: "KL130(EU)", HWVersion: "1.0"}
	assert.Equal(t, "KL130(EU)_1.0.json", dumpFileName(d, "json"))

	d.Model = "A/B"
	assert.Equal(t, "A_B_1.0.yaml", dumpFileName(d, "yaml"))

	assert.Equal(t, "10.0.0.9.json", dumpFileName(discovery.Descriptor{Addr: netip.MustParseAddr("10.0.0.9")}, "json"))
}

func TestLocation(t *testing.T) {
	assert.Equal(t, "51.5072, -0.1275", location(map[string]any{"latitude": 51.5072, "longitude": -0.1275}))
	assert.Equal(t, "51.5072, -0.1275", location(map[string]any{"latitude_i": float64(515072), "longitude_i": float64(-1275)}))
	assert.Equal(t, "unknown", location(map[string]any{}))
}
