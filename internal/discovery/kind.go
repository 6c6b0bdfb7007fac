package discovery

import (
	"fmt"
	"strings"
)

// Kind is the device family a descriptor or handle belongs to
type Kind int

const (
	// KindUnknown is a device whose sysinfo type is not recognized
	KindUnknown Kind = iota
	// KindBulb is a smart bulb (LB/KL series)
	KindBulb
	// KindPlug is a single-outlet smart plug or switch
	KindPlug
	// KindStrip is a plug with child outlets (HS300, KP303, ...)
	KindStrip
)

// String returns the canonical lowercase name of the kind
func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindBulb:
		return "bulb"
	case KindPlug:
		return "plug"
	case KindStrip:
		return "strip"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Known reports whether k is a concrete kind a handle can be built for
func (k Kind) Known() bool {
	return k == KindBulb || k == KindPlug || k == KindStrip
}

// ParseKind parses a kind name as accepted on the command line
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unknown", "auto":
		return KindUnknown, nil
	case "bulb":
		return KindBulb, nil
	case "plug":
		return KindPlug, nil
	case "strip", "multi-outlet-strip":
		return KindStrip, nil
	default:
		return KindUnknown, fmt.Errorf("unknown device kind %q (expected bulb, plug or strip)", s)
	}
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// classifyKind maps a get_sysinfo object to a Kind.
// Plugs with a non-empty children list are strips.
func classifyKind(sysinfo map[string]any) Kind {
	deviceType := stringField(sysinfo, "type")
	if deviceType == "" {
		deviceType = stringField(sysinfo, "mic_type")
	}
	deviceType = strings.ToLower(deviceType)

	switch {
	case strings.Contains(deviceType, "smartplug"):
		if children, ok := sysinfo["children"].([]any); ok && len(children) > 0 {
			return KindStrip
		}
		return KindPlug
	case strings.Contains(deviceType, "smartbulb"):
		return KindBulb
	default:
		return KindUnknown
	}
}
