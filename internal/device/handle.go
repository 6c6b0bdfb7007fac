package device

import (
	"fmt"
	"net/netip"

	"github.com/muurk/kasactl/internal/discovery"
)

// Handle is a resolved, typed reference to one device.
// The kind is fixed at construction.
type Handle struct {
	host   string
	addr   netip.Addr
	kind   discovery.Kind
	device Device
	desc   *discovery.Descriptor
}

// Host returns the host name or address commands are sent to
func (h *Handle) Host() string {
	return h.host
}

// Addr returns the IP address, or the zero Addr when the handle was built
// from a host name
func (h *Handle) Addr() netip.Addr {
	return h.addr
}

// Kind returns the device kind
func (h *Handle) Kind() discovery.Kind {
	return h.kind
}

// Device returns the capability set for the kind
func (h *Handle) Device() Device {
	return h.device
}

// Descriptor returns the discovery snapshot the handle was resolved from.
// Handles built from a kind hint have none.
func (h *Handle) Descriptor() (discovery.Descriptor, bool) {
	if h.desc == nil {
		return discovery.Descriptor{}, false
	}
	return *h.desc, true
}

// String returns a human-readable string representation of the handle
func (h *Handle) String() string {
	return fmt.Sprintf("%s at %s", h.kind, h.host)
}
