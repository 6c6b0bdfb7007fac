package resolve

import (
	"fmt"
	"net/netip"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/kasactl/internal/device"
	"github.com/muurk/kasactl/internal/discovery"
	"github.com/muurk/kasactl/internal/protocol"
	"github.com/muurk/kasactl/internal/transport"
)

const broadcast = "255.255.255.255"

// networkProber simulates a LAN: the broadcast address reaches every
// device, a unicast address reaches only that device
type networkProber struct {
	mu      sync.Mutex
	devices map[string]string // address -> sysinfo payload
	calls   []string
}

func (n *networkProber) Probe(target string, timeout time.Duration) (*transport.Round, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, target)

	var replies []transport.Reply
	for addr, payload := range n.devices {
		if target == broadcast || target == addr {
			replies = append(replies, transport.Reply{
				Source:  netip.AddrPortFrom(netip.MustParseAddr(addr), protocol.DefaultPort),
				Payload: []byte(payload),
			})
		}
	}
	return transport.NewStaticRound(replies, nil), nil
}

func sysinfo(alias, deviceType string) string {
	return fmt.Sprintf(`{"system":{"get_sysinfo":{"alias":%q,"type":%q}}}`, alias, deviceType)
}

func homeNetwork() *networkProber {
	return &networkProber{devices: map[string]string{
		"10.0.0.5": sysinfo("Living Room", "IOT.SMARTPLUGSWITCH"),
		"10.0.0.9": sysinfo("Bedroom", "IOT.SMARTBULB"),
	}}
}

type nopQuerier struct{}

func (nopQuerier) Do(*protocol.Request) (map[string]any, error) { return map[string]any{}, nil }

func newTestResolver(p transport.Prober) *Resolver {
	return New(p, func(string) device.Querier { return nopQuerier{} })
}

func validRequest() Request {
	return Request{Target: broadcast, Timeout: time.Second, Attempts: 3}
}

func TestResolver_Discover(t *testing.T) {
	r := newTestResolver(homeNetwork())

	result, err := r.Discover(broadcast, 3*time.Second, false)
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.Equal(t, "Living Room", result[netip.MustParseAddr("10.0.0.5")].Alias)
	assert.Equal(t, discovery.KindBulb, result[netip.MustParseAddr("10.0.0.9")].Kind)
}

func TestResolver_ResolveAlias(t *testing.T) {
	net := homeNetwork()
	r := newTestResolver(net)

	addr, err := r.ResolveAlias("living room", broadcast, time.Second, 3)
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("10.0.0.5"), addr)
	assert.Len(t, net.calls, 1)

	_, err = r.ResolveAlias("nobody", broadcast, time.Second, 2)
	assert.True(t, discovery.IsNotFound(err))
	assert.Len(t, net.calls, 3)
}

func TestResolver_ResolveSingleAndTyped(t *testing.T) {
	net := homeNetwork()
	r := newTestResolver(net)

	h, err := r.ResolveSingle("10.0.0.9")
	require.NoError(t, err)
	assert.Equal(t, discovery.KindBulb, h.Kind())
	assert.Equal(t, []string{"10.0.0.9"}, net.calls)

	h, err = r.ResolveTyped("10.0.0.9", discovery.KindPlug)
	require.NoError(t, err)
	assert.Equal(t, discovery.KindPlug, h.Kind(), "the hint is trusted")
	assert.Len(t, net.calls, 1, "typed resolution never probes")
}

func TestResolver_ResolveOnly(t *testing.T) {
	t.Run("exactly one", func(t *testing.T) {
		net := &networkProber{devices: map[string]string{"10.0.0.5": sysinfo("Living Room", "IOT.SMARTPLUGSWITCH")}}

		h, err := newTestResolver(net).ResolveOnly(broadcast, time.Second)
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.5", h.Host())
		assert.Equal(t, discovery.KindPlug, h.Kind())
	})

	t.Run("none", func(t *testing.T) {
		_, err := newTestResolver(&networkProber{}).ResolveOnly(broadcast, time.Second)
		assert.ErrorIs(t, err, discovery.ErrNotFound)
	})

	t.Run("several", func(t *testing.T) {
		_, err := newTestResolver(homeNetwork()).ResolveOnly(broadcast, time.Second)

		var re *discovery.ResolveError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, discovery.ErrTypeAmbiguousMatch, re.Type)
		assert.Equal(t, []netip.Addr{netip.MustParseAddr("10.0.0.5"), netip.MustParseAddr("10.0.0.9")}, re.Candidates)
	})
}

func TestResolver_Resolve(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Request)
		network   func() *networkProber
		wantHost  string
		wantKind  discovery.Kind
		wantCalls []string
		wantErr   error
	}{
		{
			name:      "host auto-detect",
			mutate:    func(r *Request) { r.Host = "10.0.0.9" },
			network:   homeNetwork,
			wantHost:  "10.0.0.9",
			wantKind:  discovery.KindBulb,
			wantCalls: []string{"10.0.0.9"},
		},
		{
			name:     "host with kind hint",
			mutate:   func(r *Request) { r.Host = "10.0.0.9"; r.Kind = discovery.KindBulb },
			network:  homeNetwork,
			wantHost: "10.0.0.9",
			wantKind: discovery.KindBulb,
		},
		{
			name:      "alias then detect",
			mutate:    func(r *Request) { r.Alias = "BEDROOM" },
			network:   homeNetwork,
			wantHost:  "10.0.0.9",
			wantKind:  discovery.KindBulb,
			wantCalls: []string{broadcast, "10.0.0.9"},
		},
		{
			name:      "alias with kind hint",
			mutate:    func(r *Request) { r.Alias = "Living Room"; r.Kind = discovery.KindStrip },
			network:   homeNetwork,
			wantHost:  "10.0.0.5",
			wantKind:  discovery.KindStrip,
			wantCalls: []string{broadcast},
		},
		{
			name:      "alias not found",
			mutate:    func(r *Request) { r.Alias = "Garage"; r.Attempts = 2 },
			network:   homeNetwork,
			wantCalls: []string{broadcast, broadcast},
			wantErr:   discovery.ErrNotFound,
		},
		{
			name:      "neither with several devices",
			mutate:    func(*Request) {},
			network:   homeNetwork,
			wantCalls: []string{broadcast},
			wantErr:   discovery.ErrAmbiguousMatch,
		},
		{
			name:   "neither with one device",
			mutate: func(*Request) {},
			network: func() *networkProber {
				return &networkProber{devices: map[string]string{"10.0.0.9": sysinfo("Bedroom", "IOT.SMARTBULB")}}
			},
			wantHost:  "10.0.0.9",
			wantKind:  discovery.KindBulb,
			wantCalls: []string{broadcast},
		},
		{
			name:      "host with unknown device",
			mutate:    func(r *Request) { r.Host = "10.0.0.11" },
			network:   func() *networkProber { return &networkProber{devices: map[string]string{"10.0.0.11": sysinfo("Cam", "IOT.IPCAMERA")}} },
			wantCalls: []string{"10.0.0.11"},
			wantErr:   discovery.ErrUnresolvedDevice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net := tt.network()
			req := validRequest()
			tt.mutate(&req)

			h, err := newTestResolver(net).Resolve(req)

			assert.Equal(t, tt.wantCalls, net.calls)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, h.Host())
			assert.Equal(t, tt.wantKind, h.Kind())
		})
	}
}

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr string
	}{
		{name: "valid", mutate: func(*Request) {}},
		{name: "host and alias", mutate: func(r *Request) { r.Host = "10.0.0.5"; r.Alias = "Lamp" }, wantErr: "mutually exclusive"},
		{name: "no target", mutate: func(r *Request) { r.Target = "" }, wantErr: "target is required"},
		{name: "zero timeout", mutate: func(r *Request) { r.Timeout = 0 }, wantErr: "timeout must be positive"},
		{name: "zero attempts", mutate: func(r *Request) { r.Attempts = 0 }, wantErr: "attempts must be at least 1"},
		{name: "bad kind", mutate: func(r *Request) { r.Kind = discovery.Kind(7) }, wantErr: "not a known device kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, discovery.IsInvalidArgument(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolver_ResolveInvalidRequestSendsNothing(t *testing.T) {
	net := homeNetwork()
	req := validRequest()
	req.Attempts = 0
	req.Alias = "Bedroom"

	_, err := newTestResolver(net).Resolve(req)

	assert.True(t, discovery.IsInvalidArgument(err))
	assert.Empty(t, net.calls)
}
