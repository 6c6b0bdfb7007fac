package protocol

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/kasactl/internal/logging"
)

// DefaultTimeout is the default dial and I/O timeout for one command
const DefaultTimeout = 5 * time.Second

// Client issues commands to one device over TCP.
// Each Query opens its own connection; the device closes it after responding.
type Client struct {
	// Host is the device host name or IP address
	Host string

	// Port is the TCP port (default 9999)
	Port int

	// Timeout bounds dialing plus the request/response exchange
	Timeout time.Duration
}

// NewClient creates a client for host with default port and timeout
func NewClient(host string) *Client {
	return &Client{
		Host:    host,
		Port:    DefaultPort,
		Timeout: DefaultTimeout,
	}
}

// Address returns host:port
func (c *Client) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Query calls module.method with args and returns the method result object.
func (c *Client) Query(module, method string, args map[string]any) (map[string]any, error) {
	return c.Do(&Request{Module: module, Method: method, Args: args})
}

// Do sends a prepared request and unwraps its result.
func (c *Client) Do(req *Request) (map[string]any, error) {
	payload, err := req.Marshal()
	if err != nil {
		return nil, err
	}

	resp, err := c.exchange(payload)
	if err != nil {
		return nil, err
	}

	return UnwrapResponse(resp, req.Module, req.Method)
}

// exchange performs one request/response round trip.
func (c *Client) exchange(payload []byte) ([]byte, error) {
	addr := c.Address()

	conn, err := net.DialTimeout("tcp", addr, c.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer func() { _ = conn.Close() }()

	if err := conn.SetDeadline(time.Now().Add(c.Timeout)); err != nil {
		return nil, fmt.Errorf("failed to set deadline: %w", err)
	}

	logging.Debug("Sending request", zap.String("addr", addr), zap.ByteString("payload", payload))

	if err := WriteFrame(conn, payload); err != nil {
		return nil, err
	}

	resp, err := ReadFrame(conn)
	if err != nil {
		return nil, fmt.Errorf("no response from %s: %w", addr, err)
	}

	logging.Debug("Received response", zap.String("addr", addr), zap.Int("length", len(resp)))
	logging.LogRawBytes("response", resp)

	return resp, nil
}
