package discovery

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
)

// ErrorType represents the category of a resolution failure
type ErrorType int

const (
	// ErrTypeTransport indicates a socket-level failure during a probe
	ErrTypeTransport ErrorType = iota
	// ErrTypeInvalidArgument indicates malformed input (non-positive timeout, zero attempts, ...)
	ErrTypeInvalidArgument
	// ErrTypeNotFound indicates a well-formed search that matched nothing
	ErrTypeNotFound
	// ErrTypeAmbiguousMatch indicates several devices matched where one was expected
	ErrTypeAmbiguousMatch
	// ErrTypeUnresolvedDevice indicates an address whose device kind could not be determined
	ErrTypeUnresolvedDevice
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeTransport:
		return "Transport Error"
	case ErrTypeInvalidArgument:
		return "Invalid Argument"
	case ErrTypeNotFound:
		return "Not Found"
	case ErrTypeAmbiguousMatch:
		return "Ambiguous Match"
	case ErrTypeUnresolvedDevice:
		return "Unresolved Device"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// ResolveError is the structured error returned by discovery and resolution
type ResolveError struct {
	Type       ErrorType    // Category of error
	Message    string       // Human-readable error message
	Address    string       // Address or target involved (if any)
	Payload    []byte       // Raw reply obtained before failing (UnresolvedDevice)
	Candidates []netip.Addr // Matching addresses (AmbiguousMatch)
	Attempts   int          // Discovery rounds consumed (alias resolution)
	Err        error        // Underlying error (if any)
}

// Sentinels for errors.Is. Only the Type is compared.
var (
	ErrTransport        = &ResolveError{Type: ErrTypeTransport}
	ErrInvalidArgument  = &ResolveError{Type: ErrTypeInvalidArgument}
	ErrNotFound         = &ResolveError{Type: ErrTypeNotFound}
	ErrAmbiguousMatch   = &ResolveError{Type: ErrTypeAmbiguousMatch}
	ErrUnresolvedDevice = &ResolveError{Type: ErrTypeUnresolvedDevice}
)

// Error implements the error interface
func (e *ResolveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ResolveError) Unwrap() error {
	return e.Err
}

// Is matches any *ResolveError of the same type
func (e *ResolveError) Is(target error) bool {
	t, ok := target.(*ResolveError)
	return ok && t.Type == e.Type
}

// NewTransportError wraps a probe failure against target
func NewTransportError(target string, err error) *ResolveError {
	return &ResolveError{
		Type:    ErrTypeTransport,
		Message: fmt.Sprintf("discovery probe to %s failed", target),
		Address: target,
		Err:     err,
	}
}

// NewInvalidArgument creates an input validation error
func NewInvalidArgument(format string, args ...any) *ResolveError {
	return &ResolveError{
		Type:    ErrTypeInvalidArgument,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewNotFound creates a not-found error
func NewNotFound(format string, args ...any) *ResolveError {
	return &ResolveError{
		Type:    ErrTypeNotFound,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewAmbiguousMatch creates an error listing every matching address
func NewAmbiguousMatch(message string, candidates []netip.Addr) *ResolveError {
	return &ResolveError{
		Type:       ErrTypeAmbiguousMatch,
		Message:    message,
		Candidates: candidates,
	}
}

// NewUnresolvedDevice creates an error for an address whose kind is unknown,
// keeping whatever payload was received
func NewUnresolvedDevice(address string, payload []byte, message string) *ResolveError {
	return &ResolveError{
		Type:    ErrTypeUnresolvedDevice,
		Message: message,
		Address: address,
		Payload: payload,
	}
}

func hasType(err error, t ErrorType) bool {
	var re *ResolveError
	return errors.As(err, &re) && re.Type == t
}

// IsTransportError checks if an error is a transport error
func IsTransportError(err error) bool {
	return hasType(err, ErrTypeTransport)
}

// IsInvalidArgument checks if an error is an input validation error
func IsInvalidArgument(err error) bool {
	return hasType(err, ErrTypeInvalidArgument)
}

// IsNotFound checks if an error is a not-found error
func IsNotFound(err error) bool {
	return hasType(err, ErrTypeNotFound)
}

// IsAmbiguousMatch checks if an error is an ambiguous match
func IsAmbiguousMatch(err error) bool {
	return hasType(err, ErrTypeAmbiguousMatch)
}

// IsUnresolvedDevice checks if an error is an unresolved device error
func IsUnresolvedDevice(err error) bool {
	return hasType(err, ErrTypeUnresolvedDevice)
}

// ShortMessage returns a concise, user-friendly message for err
func ShortMessage(err error) string {
	var re *ResolveError
	if !errors.As(err, &re) {
		return err.Error()
	}

	switch re.Type {
	case ErrTypeTransport:
		return fmt.Sprintf("Network error while probing %s", re.Address)
	case ErrTypeInvalidArgument:
		return re.Message
	case ErrTypeNotFound:
		return re.Message
	case ErrTypeAmbiguousMatch:
		addrs := make([]string, len(re.Candidates))
		for i, a := range re.Candidates {
			addrs[i] = a.String()
		}
		return fmt.Sprintf("%s: %s", re.Message, strings.Join(addrs, ", "))
	case ErrTypeUnresolvedDevice:
		return fmt.Sprintf("Could not determine the device type of %s", re.Address)
	default:
		return re.Error()
	}
}

// TroubleshootingHints returns user-facing advice for err
func TroubleshootingHints(err error) string {
	var re *ResolveError
	if !errors.As(err, &re) {
		return "An unexpected error occurred. Run with --debug for details."
	}

	switch re.Type {
	case ErrTypeTransport:
		return strings.Join([]string{
			"The discovery probe could not be sent or received.",
			"Troubleshooting:",
			"  • Check that you are connected to the same network as the device",
			"  • Some networks block broadcast; try --target with your subnet broadcast (e.g. 192.168.1.255)",
			"  • Make sure a firewall allows UDP port 9999",
		}, "\n")

	case ErrTypeInvalidArgument:
		return "Check the command-line flags and configuration values."

	case ErrTypeNotFound:
		hint := []string{
			"No device answered with a matching name.",
			"Troubleshooting:",
			"  • Run 'kasactl discover' to list the devices that answer",
			"  • Aliases match ignoring case but otherwise exactly",
			"  • Increase --attempts or --timeout on busy Wi-Fi networks",
		}
		if re.Attempts > 0 {
			hint[0] = fmt.Sprintf("No device answered with a matching name after %d attempt(s).", re.Attempts)
		}
		return strings.Join(hint, "\n")

	case ErrTypeAmbiguousMatch:
		return strings.Join([]string{
			"More than one device answered.",
			"Troubleshooting:",
			"  • Select one device with --host or --alias",
		}, "\n")

	case ErrTypeUnresolvedDevice:
		return strings.Join([]string{
			"The device did not answer or reported an unsupported type.",
			"Troubleshooting:",
			"  • Verify the address is correct and the device is powered on",
			"  • Pass --plug, --bulb or --strip to skip auto-detection",
			"  • Use 'kasactl dump-discover' to capture the raw reply",
		}, "\n")

	default:
		return "An error occurred. Please check the error message for details."
	}
}
