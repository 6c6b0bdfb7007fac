package discovery

import (
	"fmt"
	"net/netip"
	"sync"
	"time"

	"github.com/muurk/kasactl/internal/transport"
)

// fakeProber replays scripted rounds and counts Probe calls
type fakeProber struct {
	mu      sync.Mutex
	rounds  [][]transport.Reply // replayed in order; the last one repeats
	errs    []error             // Probe error per call (nil entries succeed)
	calls   int
	targets []string
}

func (f *fakeProber) Probe(target string, timeout time.Duration) (*transport.Round, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.calls
	f.calls++
	f.targets = append(f.targets, target)

	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}

	var replies []transport.Reply
	if len(f.rounds) > 0 {
		replies = f.rounds[min(i, len(f.rounds)-1)]
	}
	return transport.NewStaticRound(replies, nil), nil
}

func (f *fakeProber) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func sysinfoReply(addr, alias, deviceType string) transport.Reply {
	payload := fmt.Sprintf(`{"system":{"get_sysinfo":{"alias":%q,"type":%q,"model":"M1","hw_ver":"1.0","sw_ver":"1.2.5"}}}`, alias, deviceType)
	return transport.Reply{
		Source:  netip.AddrPortFrom(netip.MustParseAddr(addr), 9999),
		Payload: []byte(payload),
	}
}

// homeNetwork is a plug "Living Room" at 10.0.0.5 and a bulb "Bedroom" at 10.0.0.9
func homeNetwork() []transport.Reply {
	return []transport.Reply{
		sysinfoReply("10.0.0.5", "Living Room", "IOT.SMARTPLUGSWITCH"),
		sysinfoReply("10.0.0.9", "Bedroom", "IOT.SMARTBULB"),
	}
}
