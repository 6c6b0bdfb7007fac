package main

import (
	"bytes"
	"net/netip"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/muurk/kasactl/internal/config"
	"github.com/muurk/kasactl/internal/device"
	"github.com/muurk/kasactl/internal/protocol"
	"github.com/muurk/kasactl/internal/resolve"
	"github.com/muurk/kasactl/internal/transport"
)

// fakeDevice answers protocol requests from a table keyed by "module.method"
type fakeDevice struct {
	sysinfo   map[string]any
	responses map[string]map[string]any
	requests  []protocol.Request
}

func (d *fakeDevice) Do(req *protocol.Request) (map[string]any, error) {
	d.requests = append(d.requests, *req)
	key := req.Module + "." + req.Method
	if key == "system.get_sysinfo" {
		return d.sysinfo, nil
	}
	if resp, ok := d.responses[key]; ok {
		return resp, nil
	}
	return map[string]any{"err_code": float64(0)}, nil
}

func (d *fakeDevice) sent(method string) []protocol.Request {
	var out []protocol.Request
	for _, r := range d.requests {
		if r.Method == method {
			out = append(out, r)
		}
	}
	return out
}

// fakeNetwork plays both sides: the broadcast domain for the prober and the
// TCP endpoints for the dialer
type fakeNetwork struct {
	mu      sync.Mutex
	devices map[string]*fakeDevice
	probes  []string
}

func (n *fakeNetwork) Probe(target string, _ time.Duration) (*transport.Round, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.probes = append(n.probes, target)

	var replies []transport.Reply
	for host, d := range n.devices {
		if !strings.HasSuffix(target, ".255") && target != host {
			continue
		}
		payload, err := sysinfoPayload(d.sysinfo)
		if err != nil {
			return nil, err
		}
		replies = append(replies, transport.Reply{
			Seq:     len(replies) + 1,
			Source:  netip.AddrPortFrom(netip.MustParseAddr(host), protocol.DefaultPort),
			Payload: payload,
		})
	}
	return transport.NewStaticRound(replies, nil), nil
}

func (n *fakeNetwork) dial(host string) device.Querier {
	n.mu.Lock()
	defer n.mu.Unlock()
	if d, ok := n.devices[host]; ok {
		return d
	}
	return &fakeDevice{sysinfo: map[string]any{}}
}

func sysinfoPayload(sysinfo map[string]any) ([]byte, error) {
	req := protocol.Request{Module: protocol.ModuleSystem, Method: protocol.MethodGetSysinfo, Args: sysinfo}
	return req.Marshal()
}

func kitchenPlug() *fakeDevice {
	return &fakeDevice{
		sysinfo: map[string]any{
			"alias": "Kitchen", "model": "HS110(EU)", "type": "IOT.SMARTPLUGSWITCH",
			"hw_ver": "2.0", "sw_ver": "1.5.4", "mac": "50:C7:BF:00:00:01",
			"relay_state": float64(1), "led_off": float64(0), "on_time": float64(60),
			"feature": "TIM:ENE", "rssi": float64(-52),
			"latitude_i": float64(515072), "longitude_i": float64(-1275),
		},
		responses: map[string]map[string]any{
			"time.get_time": {
				"year": float64(2026), "month": float64(10), "mday": float64(19),
				"hour": float64(8), "min": float64(30), "sec": float64(0),
			},
			"emeter.get_realtime": {"power_mw": float64(12500), "voltage_mv": float64(231000)},
			"emeter.get_daystat":  {"day_list": []any{}},
		},
	}
}

func officeStrip() *fakeDevice {
	return &fakeDevice{
		sysinfo: map[string]any{
			"alias": "Office", "model": "HS300(US)", "type": "IOT.SMARTPLUGSWITCH",
			"hw_ver": "1.0", "sw_ver": "1.0.6", "mac": "50:C7:BF:00:00:02",
			"relay_state": float64(1), "led_off": float64(0), "feature": "TIM:ENE",
			"children": []any{
				map[string]any{"id": "8006-00", "alias": "Monitor", "state": float64(0)},
				map[string]any{"id": "8006-01", "alias": "Lamp", "state": float64(1)},
			},
		},
		responses: map[string]map[string]any{
			"time.get_time": {
				"year": float64(2026), "month": float64(10), "mday": float64(19),
				"hour": float64(9), "min": float64(0), "sec": float64(0),
			},
		},
	}
}

// testEnv is one isolated CLI invocation environment
type testEnv struct {
	t   *testing.T
	net *fakeNetwork
	out *bytes.Buffer
	in  *strings.Reader
}

func newTestEnv(t *testing.T, devices map[string]*fakeDevice) *testEnv {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, config.EnvPrefix+"_") || strings.HasPrefix(name, "PYHS100_") {
			t.Setenv(name, "")
			require.NoError(t, os.Unsetenv(name))
		}
	}

	return &testEnv{
		t:   t,
		net: &fakeNetwork{devices: devices},
		out: &bytes.Buffer{},
		in:  strings.NewReader(""),
	}
}

// run executes one kasactl command line
func (e *testEnv) run(args ...string) error {
	a := newApp(e.in, e.out)
	a.newResolver = func(cfg *config.Config) *resolve.Resolver {
		r := resolve.New(e.net, e.net.dial)
		r.Factory.DetectTimeout = cfg.DetectTimeout
		return r
	}

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(e.out)
	cmd.SetErr(e.out)
	return cmd.Execute()
}

func (e *testEnv) output() string {
	return e.out.String()
}

func (e *testEnv) probeCount() int {
	e.net.mu.Lock()
	defer e.net.mu.Unlock()
	return len(e.net.probes)
}
