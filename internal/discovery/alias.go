package discovery

import (
	"errors"
	"net/netip"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/kasactl/internal/logging"
)

// AttemptState is a state of the alias resolution state machine
type AttemptState int

const (
	// StateIdle is between attempts (before the first, or after a miss)
	StateIdle AttemptState = iota
	// StateProbing is while a discovery round is running
	StateProbing
	// StateFound is terminal: a descriptor matched
	StateFound
	// StateExhausted is terminal: every attempt was used without a match
	StateExhausted
)

// String returns the state name
func (s AttemptState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProbing:
		return "probing"
	case StateFound:
		return "found"
	case StateExhausted:
		return "exhausted"
	default:
		return "invalid"
	}
}

// Attempt describes one state transition of an alias resolution
type Attempt struct {
	Number  int // 1-based attempt number
	Max     int // attempt budget
	State   AttemptState
	Devices int   // descriptors seen in the finished round
	Err     error // transport error that ended the attempt, if any
}

// AliasResolver finds the address of a device by its alias
type AliasResolver struct {
	// Aggregator runs the discovery rounds
	Aggregator Aggregator

	// OnAttempt, if set, observes every state transition
	OnAttempt func(Attempt)
}

// NewAliasResolver creates a resolver over aggregator
func NewAliasResolver(aggregator Aggregator) *AliasResolver {
	return &AliasResolver{Aggregator: aggregator}
}

// Resolve runs up to maxAttempts sequential discovery rounds against
// target and returns the address of the first descriptor whose alias
// matches ignoring case. Among duplicates within a round the lowest address
// wins.
//
// A round that fails at the socket level consumes its attempt. If no round
// matched the result is a NotFound error, unless every round failed, in
// which case the last transport error is returned.
func (a *AliasResolver) Resolve(alias, target string, timeout time.Duration, maxAttempts int) (netip.Addr, error) {
	if alias == "" {
		return netip.Addr{}, NewInvalidArgument("alias must not be empty")
	}
	if maxAttempts < 1 {
		return netip.Addr{}, NewInvalidArgument("attempts must be at least 1, got %d", maxAttempts)
	}
	if timeout <= 0 {
		return netip.Addr{}, NewInvalidArgument("alias timeout must be positive, got %v", timeout)
	}

	var lastErr error
	failures := 0

	for n := 1; n <= maxAttempts; n++ {
		a.notify(Attempt{Number: n, Max: maxAttempts, State: StateProbing})
		logging.Debug("Alias lookup attempt",
			zap.String("alias", alias),
			zap.Int("attempt", n),
			zap.Int("max_attempts", maxAttempts))

		result, err := a.Aggregator.Discover(target, timeout, false)
		if err != nil {
			if IsInvalidArgument(err) {
				return netip.Addr{}, err
			}
			failures++
			lastErr = err
			logging.Warn("Alias lookup attempt failed",
				zap.Int("attempt", n),
				zap.Error(err))
			a.notify(Attempt{Number: n, Max: maxAttempts, State: StateIdle, Err: err})
			continue
		}

		matches := result.MatchAlias(alias)
		if len(matches) > 0 {
			if len(matches) > 1 {
				logging.Warn("Several devices share the alias, using the lowest address",
					zap.String("alias", alias),
					zap.Int("matches", len(matches)),
					zap.Stringer("chosen", matches[0].Addr))
			}
			a.notify(Attempt{Number: n, Max: maxAttempts, State: StateFound, Devices: len(result)})
			return matches[0].Addr, nil
		}

		a.notify(Attempt{Number: n, Max: maxAttempts, State: StateIdle, Devices: len(result)})
	}

	a.notify(Attempt{Number: maxAttempts, Max: maxAttempts, State: StateExhausted, Err: lastErr})

	if failures == maxAttempts {
		var re *ResolveError
		if errors.As(lastErr, &re) && re.Type == ErrTypeTransport {
			failed := *re
			failed.Attempts = maxAttempts
			return netip.Addr{}, &failed
		}
		te := NewTransportError(target, lastErr)
		te.Attempts = maxAttempts
		return netip.Addr{}, te
	}

	nf := NewNotFound("no device with alias %q answered", alias)
	nf.Attempts = maxAttempts
	nf.Address = target
	return netip.Addr{}, nf
}

func (a *AliasResolver) notify(at Attempt) {
	if a.OnAttempt != nil {
		a.OnAttempt(at)
	}
}
