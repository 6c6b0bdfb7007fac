package transport

import (
	"errors"
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/kasactl/internal/protocol"
)

const plugSysinfo = `{"system":{"get_sysinfo":{"alias":"Living Room","type":"IOT.SMARTPLUGSWITCH","model":"HS100(EU)"}}}`

// fakeDevice answers every datagram it receives with the given raw (already encrypted) replies.
func fakeDevice(t *testing.T, replies ...[]byte) (*net.UDPConn, <-chan []byte) {
	t.Helper()

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	queries := make(chan []byte, 4)
	go func() {
		buf := make([]byte, 2048)
		for {
			n, src, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			queries <- protocol.DecodeDatagram(buf[:n])
			for _, r := range replies {
				_, _ = conn.WriteToUDP(r, src)
			}
		}
	}()

	return conn, queries
}

func probeFor(conn *net.UDPConn) *UDPProbe {
	p := NewUDPProbe()
	p.Port = conn.LocalAddr().(*net.UDPAddr).Port
	return p
}

func drain(r *Round) []Reply {
	var out []Reply
	for reply := range r.Replies() {
		out = append(out, reply)
	}
	return out
}

func TestNewUDPProbe(t *testing.T) {
	p := NewUDPProbe()

	assert.Equal(t, protocol.DefaultPort, p.Port)
	assert.Equal(t, protocol.DiscoveryQuery, p.Query)
}

func TestUDPProbe_CollectsAllReplies(t *testing.T) {
	good := protocol.EncodeDatagram([]byte(plugSysinfo))
	conn, queries := fakeDevice(t, good, good)

	round, err := probeFor(conn).Probe("127.0.0.1", 300*time.Millisecond)
	require.NoError(t, err)
	defer round.Close()

	replies := drain(round)
	require.NoError(t, round.Err())

	// Both replies are delivered; de-duplication is the aggregator's job
	require.Len(t, replies, 2)
	assert.Equal(t, 1, replies[0].Seq)
	assert.Equal(t, 2, replies[1].Seq)
	assert.Equal(t, netip.MustParseAddr("127.0.0.1"), replies[0].Source.Addr())
	assert.JSONEq(t, plugSysinfo, string(replies[0].Payload))

	select {
	case q := <-queries:
		assert.Equal(t, protocol.DiscoveryQuery, q)
	default:
		t.Fatal("fake device did not receive the discovery query")
	}
}

func TestUDPProbe_SkipsMalformedReplies(t *testing.T) {
	garbage := protocol.EncodeDatagram([]byte("{not json"))
	good := protocol.EncodeDatagram([]byte(plugSysinfo))
	conn, _ := fakeDevice(t, garbage, good)

	round, err := probeFor(conn).Probe("127.0.0.1", 300*time.Millisecond)
	require.NoError(t, err)
	defer round.Close()

	replies := drain(round)
	require.NoError(t, round.Err())
	require.Len(t, replies, 1)
	assert.Equal(t, 1, replies[0].Seq, "skipped replies do not consume sequence numbers")
}

func TestUDPProbe_ListensForFullWindow(t *testing.T) {
	conn, _ := fakeDevice(t, protocol.EncodeDatagram([]byte(plugSysinfo)))
	timeout := 250 * time.Millisecond

	start := time.Now()
	round, err := probeFor(conn).Probe("127.0.0.1", timeout)
	require.NoError(t, err)
	drain(round)
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, timeout, "probe must not stop at the first reply")
	assert.Less(t, elapsed, timeout+500*time.Millisecond, "probe must end shortly after the deadline")
}

func TestUDPProbe_NoResponders(t *testing.T) {
	// Bound but silent socket
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer conn.Close()

	round, err := probeFor(conn).Probe("127.0.0.1", 100*time.Millisecond)
	require.NoError(t, err)

	assert.Empty(t, drain(round))
	assert.NoError(t, round.Err())
}

func TestUDPProbe_InvalidTimeout(t *testing.T) {
	_, err := NewUDPProbe().Probe("127.0.0.1", 0)
	assert.Error(t, err)
}

func TestUDPProbe_ResolveError(t *testing.T) {
	// An IPv6 literal cannot be resolved on udp4 and needs no DNS
	_, err := NewUDPProbe().Probe("::1", 100*time.Millisecond)

	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "resolve", opErr.Op)
}

func TestUDPProbe_CloseEndsRoundEarly(t *testing.T) {
	good := protocol.EncodeDatagram([]byte(plugSysinfo))
	conn, _ := fakeDevice(t, good)

	round, err := probeFor(conn).Probe("127.0.0.1", 5*time.Second)
	require.NoError(t, err)

	start := time.Now()
	<-round.Replies()
	round.Close()
	for range round.Replies() {
	}

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.NoError(t, round.Err())
}

func TestNewStaticRound(t *testing.T) {
	src := netip.MustParseAddrPort("10.0.0.5:9999")
	boom := errors.New("boom")

	round := NewStaticRound([]Reply{{Source: src, Payload: []byte(`{}`)}, {Source: src, Payload: []byte(`{}`)}}, boom)
	replies := drain(round)

	require.Len(t, replies, 2)
	assert.Equal(t, 1, replies[0].Seq)
	assert.Equal(t, 2, replies[1].Seq)
	assert.ErrorIs(t, round.Err(), boom)

	round.Close()
	round.Close()
}

func TestClassifyReadError(t *testing.T) {
	assert.NoError(t, classifyReadError(net.ErrClosed, "x"))
	assert.NoError(t, classifyReadError(&net.OpError{Op: "read", Err: timeoutErr{}}, "x"))

	err := classifyReadError(errors.New("connection reset"), "10.0.0.255")
	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "receive", opErr.Op)
	assert.Contains(t, opErr.Error(), "10.0.0.255")
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestNewPendingRound(t *testing.T) {
	round := NewPendingRound()

	select {
	case <-round.Replies():
		t.Fatal("pending round ended before Close")
	case <-time.After(20 * time.Millisecond):
	}

	round.Close()
	assert.Empty(t, drain(round))
	assert.NoError(t, round.Err())
}
