package discovery

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/netip"
	"slices"

	"github.com/muurk/kasactl/internal/protocol"
)

// Descriptor is the parsed get_sysinfo reply of one device.
// It is a snapshot taken during one discovery round and is never updated.
type Descriptor struct {
	// Addr is the address the reply came from
	Addr netip.Addr `json:"addr" yaml:"addr"`

	// Port is the source port of the reply (9999 for real devices)
	Port uint16 `json:"port" yaml:"port"`

	// Alias is the user-assigned name, may be empty
	Alias string `json:"alias,omitempty" yaml:"alias,omitempty"`

	// Model is the hardware model (e.g., "HS110(EU)")
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// HWVersion and SWVersion are the hardware and firmware versions
	HWVersion string `json:"hw_ver,omitempty" yaml:"hw_ver,omitempty"`
	SWVersion string `json:"sw_ver,omitempty" yaml:"sw_ver,omitempty"`

	// MAC is the device MAC address (mac, or mic_mac on bulbs)
	MAC string `json:"mac,omitempty" yaml:"mac,omitempty"`

	// DeviceID is the vendor device identifier
	DeviceID string `json:"device_id,omitempty" yaml:"device_id,omitempty"`

	// Kind is the classified device family
	Kind Kind `json:"kind" yaml:"kind"`

	// Children are the outlets of a strip
	Children []Outlet `json:"children,omitempty" yaml:"children,omitempty"`

	// Raw is the decoded reply document
	Raw map[string]any `json:"raw,omitempty" yaml:"raw,omitempty"`

	// Payload is the reply exactly as received (after decryption)
	Payload []byte `json:"-" yaml:"-"`
}

// Outlet is one child socket of a strip
type Outlet struct {
	ID    string `json:"id" yaml:"id"`
	Alias string `json:"alias,omitempty" yaml:"alias,omitempty"`
	On    bool   `json:"on" yaml:"on"`
}

// errNoSysinfo marks a reply without a system.get_sysinfo object
var errNoSysinfo = errors.New("reply has no system.get_sysinfo object")

// String returns a one-line summary of the descriptor
func (d Descriptor) String() string {
	alias := d.Alias
	if alias == "" {
		alias = "(no alias)"
	}
	return fmt.Sprintf("%s %q %s %s", d.Addr, alias, d.Model, d.Kind)
}

// Sysinfo returns the get_sysinfo object of the raw reply, or nil
func (d Descriptor) Sysinfo() map[string]any {
	return sysinfoOf(d.Raw)
}

// ParseDescriptor parses one discovery reply.
//
// In strict mode the reply must contain a system.get_sysinfo object. With
// raw set, any JSON object is accepted: a reply without sysinfo is kept with
// Kind unknown and only the address, Raw and Payload filled in.
func ParseDescriptor(src netip.AddrPort, payload []byte, raw bool) (Descriptor, error) {
	desc := Descriptor{
		Addr:    src.Addr().Unmap(),
		Port:    src.Port(),
		Payload: slices.Clone(payload),
	}

	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return Descriptor{}, fmt.Errorf("decode reply: %w", err)
	}
	if doc == nil {
		return Descriptor{}, fmt.Errorf("decode reply: not a JSON object")
	}
	desc.Raw = doc

	sysinfo := sysinfoOf(doc)
	if sysinfo == nil {
		if raw {
			return desc, nil
		}
		return Descriptor{}, errNoSysinfo
	}

	desc.Alias = stringField(sysinfo, "alias")
	desc.Model = stringField(sysinfo, "model")
	desc.HWVersion = stringField(sysinfo, "hw_ver")
	desc.SWVersion = stringField(sysinfo, "sw_ver")
	desc.MAC = stringField(sysinfo, "mac")
	if desc.MAC == "" {
		desc.MAC = stringField(sysinfo, "mic_mac")
	}
	desc.DeviceID = stringField(sysinfo, "deviceId")
	desc.Kind = classifyKind(sysinfo)
	desc.Children = ParseOutlets(sysinfo)

	return desc, nil
}

func sysinfoOf(doc map[string]any) map[string]any {
	system, ok := doc[protocol.ModuleSystem].(map[string]any)
	if !ok {
		return nil
	}
	sysinfo, _ := system[protocol.MethodGetSysinfo].(map[string]any)
	return sysinfo
}

// ParseOutlets reads the children list of a strip sysinfo object
func ParseOutlets(sysinfo map[string]any) []Outlet {
	children, ok := sysinfo["children"].([]any)
	if !ok || len(children) == 0 {
		return nil
	}

	outlets := make([]Outlet, 0, len(children))
	for _, c := range children {
		child, ok := c.(map[string]any)
		if !ok {
			continue
		}
		state, _ := child["state"].(float64)
		outlets = append(outlets, Outlet{
			ID:    stringField(child, "id"),
			Alias: stringField(child, "alias"),
			On:    state == 1,
		})
	}
	return outlets
}

// stringField returns m[key] if it is a string, else ""
func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
