package device

import (
	"github.com/muurk/kasactl/internal/protocol"
)

// Querier sends one request to a device and returns the method result.
// *protocol.Client implements it.
type Querier interface {
	Do(req *protocol.Request) (map[string]any, error)
}

// Dialer returns a Querier for host
type Dialer func(host string) Querier

// TCPDialer returns a Dialer creating protocol clients on port
func TCPDialer(port int) Dialer {
	return func(host string) Querier {
		c := protocol.NewClient(host)
		if port > 0 {
			c.Port = port
		}
		return c
	}
}
