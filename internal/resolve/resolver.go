package resolve

import (
	"net/netip"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/kasactl/internal/device"
	"github.com/muurk/kasactl/internal/discovery"
	"github.com/muurk/kasactl/internal/logging"
	"github.com/muurk/kasactl/internal/transport"
)

// Resolver is the caller-facing resolution API
type Resolver struct {
	Discoverer *discovery.Discoverer
	Aliases    *discovery.AliasResolver
	Factory    *device.Factory
}

// New wires a resolver around one prober and one dialer
func New(prober transport.Prober, dial device.Dialer) *Resolver {
	d := discovery.NewDiscoverer(prober)
	return &Resolver{
		Discoverer: d,
		Aliases:    discovery.NewAliasResolver(d),
		Factory:    device.NewFactory(d, dial),
	}
}

// Discover runs one discovery round
func (r *Resolver) Discover(target string, timeout time.Duration, returnRaw bool) (discovery.Result, error) {
	return r.Discoverer.Discover(target, timeout, returnRaw)
}

// ResolveAlias finds the address of the device named alias
func (r *Resolver) ResolveAlias(alias, target string, timeout time.Duration, maxAttempts int) (netip.Addr, error) {
	return r.Aliases.Resolve(alias, target, timeout, maxAttempts)
}

// ResolveSingle detects the kind of the device at address
func (r *Resolver) ResolveSingle(address string) (*device.Handle, error) {
	return r.Factory.ResolveSingle(address)
}

// ResolveTyped builds a handle of the given kind without probing
func (r *Resolver) ResolveTyped(address string, kind discovery.Kind) (*device.Handle, error) {
	return r.Factory.ResolveTyped(address, kind)
}

// ResolveOnly runs one broadcast round that must find exactly one device
func (r *Resolver) ResolveOnly(target string, timeout time.Duration) (*device.Handle, error) {
	desc, err := r.only(target, timeout)
	if err != nil {
		return nil, err
	}
	return r.Factory.FromDescriptor(desc)
}

func (r *Resolver) only(target string, timeout time.Duration) (discovery.Descriptor, error) {
	result, err := r.Discoverer.Discover(target, timeout, false)
	if err != nil {
		return discovery.Descriptor{}, err
	}

	switch len(result) {
	case 0:
		nf := discovery.NewNotFound("no device answered on %s", target)
		nf.Address = target
		return discovery.Descriptor{}, nf
	case 1:
		return result.Sorted()[0], nil
	default:
		return discovery.Descriptor{}, discovery.NewAmbiguousMatch("Several devices answered; select one", result.Addresses())
	}
}

// Resolve runs the path selected by req: host, alias or neither
func (r *Resolver) Resolve(req Request) (*device.Handle, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	switch {
	case req.Host != "":
		logging.Debug("Resolving by host", zap.String("host", req.Host), zap.Stringer("kind", req.Kind))
		return r.byAddress(req.Host, req.Kind)

	case req.Alias != "":
		logging.Debug("Resolving by alias", zap.String("alias", req.Alias), zap.Int("attempts", req.Attempts))
		addr, err := r.ResolveAlias(req.Alias, req.Target, req.Timeout, req.Attempts)
		if err != nil {
			return nil, err
		}
		return r.byAddress(addr.String(), req.Kind)

	default:
		logging.Debug("Resolving the only device", zap.String("target", req.Target))
		desc, err := r.only(req.Target, req.Timeout)
		if err != nil {
			return nil, err
		}
		if req.Kind.Known() {
			return r.ResolveTyped(desc.Addr.String(), req.Kind)
		}
		return r.Factory.FromDescriptor(desc)
	}
}

func (r *Resolver) byAddress(address string, kind discovery.Kind) (*device.Handle, error) {
	if kind.Known() {
		return r.ResolveTyped(address, kind)
	}
	return r.ResolveSingle(address)
}
