package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/kasactl/internal/logging"
	"github.com/muurk/kasactl/internal/protocol"
)

// maxDatagramSize is large enough for any sysinfo reply, including strips
const maxDatagramSize = 4096

// Prober sends one discovery probe and returns the round of replies.
type Prober interface {
	Probe(target string, timeout time.Duration) (*Round, error)
}

// UDPProbe implements Prober over a fresh UDP socket per round.
type UDPProbe struct {
	// Port is the device port the probe is sent to (default 9999)
	Port int

	// Query is the plaintext payload to send (default protocol.DiscoveryQuery)
	Query []byte
}

// NewUDPProbe creates a probe with the Kasa defaults
func NewUDPProbe() *UDPProbe {
	return &UDPProbe{
		Port:  protocol.DefaultPort,
		Query: protocol.DiscoveryQuery,
	}
}

// Probe sends the query to target (a broadcast or unicast IPv4 address, or a
// host name) and collects replies until timeout elapses.
func (p *UDPProbe) Probe(target string, timeout time.Duration) (*Round, error) {
	if timeout <= 0 {
		return nil, fmt.Errorf("probe timeout must be positive, got %v", timeout)
	}

	dst, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(target, strconv.Itoa(p.Port)))
	if err != nil {
		return nil, &OpError{Op: "resolve", Target: target, Err: err}
	}

	conn, err := net.ListenUDP("udp4", nil)
	if err != nil {
		return nil, &OpError{Op: "listen", Target: target, Err: err}
	}

	// One deadline covers the send and the whole receive window
	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		_ = conn.Close()
		return nil, &OpError{Op: "listen", Target: target, Err: err}
	}

	datagram := protocol.EncodeDatagram(p.Query)
	if _, err := conn.WriteToUDP(datagram, dst); err != nil {
		_ = conn.Close()
		return nil, &OpError{Op: "send", Target: target, Err: err}
	}
	logging.LogDatagram("sent", dst.String(), datagram)

	round := newRound(func() { _ = conn.Close() })
	go p.receive(conn, target, round)

	return round, nil
}

// receive reads replies until the deadline, a socket error, or Close.
func (p *UDPProbe) receive(conn *net.UDPConn, target string, round *Round) {
	defer func() { _ = conn.Close() }()

	buf := make([]byte, maxDatagramSize)
	seq := 0

	for {
		n, src, err := conn.ReadFromUDPAddrPort(buf)
		if err != nil {
			round.finish(classifyReadError(err, target))
			return
		}

		// Key replies on plain IPv4 even if the stack reports a mapped address
		src = netip.AddrPortFrom(src.Addr().Unmap(), src.Port())
		data := protocol.DecodeDatagram(buf[:n])
		logging.LogDatagram("received", src.String(), buf[:n])

		if !json.Valid(data) {
			logging.LogSkippedReply(src.String(), "reply is not valid JSON", data)
			continue
		}

		seq++
		if !round.emit(Reply{Seq: seq, Source: src, Payload: data}) {
			logging.Debug("Round closed by consumer", zap.String("target", target), zap.Int("delivered", seq-1))
			round.finish(nil)
			return
		}
	}
}

// classifyReadError maps the error that ended the read loop.
// The deadline and a consumer Close are normal endings.
func classifyReadError(err error, target string) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return nil
	}
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return &OpError{Op: "receive", Target: target, Err: err}
}
