package device

import (
	"net/netip"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/kasactl/internal/discovery"
	"github.com/muurk/kasactl/internal/logging"
)

// DefaultDetectTimeout is the listen window of the auto-detect probe
const DefaultDetectTimeout = 2 * time.Second

// Factory turns an address and an optional kind into a Handle
type Factory struct {
	// Aggregator runs the auto-detect round
	Aggregator discovery.Aggregator

	// Dial creates the querier for a handle
	Dial Dialer

	// DetectTimeout is the auto-detect listen window
	DetectTimeout time.Duration
}

// NewFactory creates a factory with the default detect timeout
func NewFactory(aggregator discovery.Aggregator, dial Dialer) *Factory {
	return &Factory{
		Aggregator:    aggregator,
		Dial:          dial,
		DetectTimeout: DefaultDetectTimeout,
	}
}

// ResolveTyped builds a handle for a caller-asserted kind without any
// network traffic. A wrong kind surfaces later as a device error.
func (f *Factory) ResolveTyped(address string, kind discovery.Kind) (*Handle, error) {
	if address == "" {
		return nil, discovery.NewInvalidArgument("device address must not be empty")
	}
	if !kind.Known() {
		return nil, discovery.NewInvalidArgument("cannot build a handle for kind %s", kind)
	}
	return f.build(address, kind, nil), nil
}

// ResolveSingle probes address alone and builds a handle from the kind in
// its reply. No reply, or a reply of unknown kind, is an UnresolvedDevice
// error carrying whatever payload arrived.
func (f *Factory) ResolveSingle(address string) (*Handle, error) {
	if address == "" {
		return nil, discovery.NewInvalidArgument("device address must not be empty")
	}

	result, err := f.Aggregator.Discover(address, f.detectTimeout(), true)
	if err != nil {
		return nil, err
	}

	switch len(result) {
	case 0:
		return nil, discovery.NewUnresolvedDevice(address, nil, "no reply to the discovery probe")
	case 1:
	default:
		return nil, discovery.NewAmbiguousMatch("Several devices answered a probe to "+address, result.Addresses())
	}

	desc := result.Sorted()[0]
	if !desc.Kind.Known() {
		logging.Warn("Device reported an unsupported type",
			zap.String("addr", address),
			zap.String("model", desc.Model))
		return nil, discovery.NewUnresolvedDevice(address, desc.Payload, "device type not recognized")
	}

	logging.Debug("Auto-detected device",
		zap.String("addr", address),
		zap.Stringer("kind", desc.Kind),
		zap.String("model", desc.Model))

	return f.build(desc.Addr.String(), desc.Kind, &desc), nil
}

// FromDescriptor builds a handle for a device found by discovery
func (f *Factory) FromDescriptor(desc discovery.Descriptor) (*Handle, error) {
	if !desc.Kind.Known() {
		return nil, discovery.NewUnresolvedDevice(desc.Addr.String(), desc.Payload, "device type not recognized")
	}
	return f.build(desc.Addr.String(), desc.Kind, &desc), nil
}

func (f *Factory) build(host string, kind discovery.Kind, desc *discovery.Descriptor) *Handle {
	q := f.Dial(host)

	var dev Device
	switch kind {
	case discovery.KindBulb:
		dev = NewBulb(host, q)
	case discovery.KindStrip:
		dev = NewStrip(host, q)
	default:
		dev = NewPlug(host, q)
	}

	h := &Handle{host: host, kind: kind, device: dev, desc: desc}
	if addr, err := netip.ParseAddr(host); err == nil {
		h.addr = addr.Unmap()
	}
	return h
}

func (f *Factory) detectTimeout() time.Duration {
	if f.DetectTimeout <= 0 {
		return DefaultDetectTimeout
	}
	return f.DetectTimeout
}
