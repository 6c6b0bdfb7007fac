package discovery

import (
	"net/netip"
	"slices"
	"strings"
)

// Result maps each responding address to its descriptor for one round
type Result map[netip.Addr]Descriptor

// Addresses returns the responding addresses in ascending order
func (r Result) Addresses() []netip.Addr {
	addrs := make([]netip.Addr, 0, len(r))
	for addr := range r {
		addrs = append(addrs, addr)
	}
	slices.SortFunc(addrs, netip.Addr.Compare)
	return addrs
}

// Sorted returns the descriptors ordered by address
func (r Result) Sorted() []Descriptor {
	out := make([]Descriptor, 0, len(r))
	for _, addr := range r.Addresses() {
		out = append(out, r[addr])
	}
	return out
}

// MatchAlias returns the descriptors whose alias equals alias, ignoring
// case, ordered by address
func (r Result) MatchAlias(alias string) []Descriptor {
	var matches []Descriptor
	for _, desc := range r.Sorted() {
		if strings.EqualFold(desc.Alias, alias) {
			matches = append(matches, desc)
		}
	}
	return matches
}
