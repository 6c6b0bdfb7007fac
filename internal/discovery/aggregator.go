package discovery

import (
	"net/netip"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/kasactl/internal/logging"
	"github.com/muurk/kasactl/internal/transport"
)

const (
	// DefaultWorkers is the number of goroutines decoding replies
	DefaultWorkers = 4

	// closeGrace is how long past the timeout a round may run before it is
	// closed from this side
	closeGrace = 250 * time.Millisecond
)

// Aggregator runs one discovery round. *Discoverer implements it.
type Aggregator interface {
	Discover(target string, timeout time.Duration, returnRaw bool) (Result, error)
}

// RoundInfo summarizes a finished round for observers
type RoundInfo struct {
	ID      string
	Target  string
	Replies int
	Devices int
	Elapsed time.Duration
}

// Discoverer drives one probe per Discover call and folds the replies into
// a Result.
type Discoverer struct {
	// Prober sends the discovery query
	Prober transport.Prober

	// Workers is the number of decode goroutines (default DefaultWorkers)
	Workers int

	// OnRound, if set, is called after every successful round
	OnRound func(RoundInfo)
}

// NewDiscoverer creates a discoverer using prober
func NewDiscoverer(prober transport.Prober) *Discoverer {
	return &Discoverer{
		Prober:  prober,
		Workers: DefaultWorkers,
	}
}

type decoded struct {
	seq  int
	desc Descriptor
	ok   bool
}

// Discover sends one probe to target and collects replies for timeout.
// With returnRaw set, replies without a recognizable sysinfo are kept.
func (d *Discoverer) Discover(target string, timeout time.Duration, returnRaw bool) (Result, error) {
	if timeout <= 0 {
		return nil, NewInvalidArgument("discovery timeout must be positive, got %v", timeout)
	}
	if target == "" {
		return nil, NewInvalidArgument("discovery target must not be empty")
	}

	roundID := uuid.NewString()
	start := time.Now()
	logging.Debug("Starting discovery round",
		zap.String("round", roundID),
		zap.String("target", target),
		zap.Duration("timeout", timeout),
		zap.Bool("raw", returnRaw))

	round, err := d.Prober.Probe(target, timeout)
	if err != nil {
		return nil, NewTransportError(target, err)
	}
	defer round.Close()

	// Bound the round even if the prober overruns its own deadline
	guard := time.AfterFunc(timeout+closeGrace, round.Close)
	defer guard.Stop()

	out := make(chan decoded)
	var g errgroup.Group
	for i, n := 0, d.workers(); i < n; i++ {
		g.Go(func() error {
			for reply := range round.Replies() {
				desc, err := ParseDescriptor(reply.Source, reply.Payload, returnRaw)
				if err != nil {
					logging.LogSkippedReply(reply.Source.String(), err.Error(), reply.Payload)
					out <- decoded{seq: reply.Seq}
					continue
				}
				out <- decoded{seq: reply.Seq, desc: desc, ok: true}
			}
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(out)
	}()

	// Single writer: the latest reply per address wins regardless of which
	// worker finished decoding first
	result := make(Result)
	latest := make(map[netip.Addr]int)
	replies := 0
	for r := range out {
		replies++
		if !r.ok {
			continue
		}
		if seq, seen := latest[r.desc.Addr]; seen && seq > r.seq {
			continue
		}
		latest[r.desc.Addr] = r.seq
		result[r.desc.Addr] = r.desc
	}

	if err := round.Err(); err != nil {
		return nil, NewTransportError(target, err)
	}

	logging.LogRound(roundID, target, replies, len(result))
	if d.OnRound != nil {
		d.OnRound(RoundInfo{
			ID:      roundID,
			Target:  target,
			Replies: replies,
			Devices: len(result),
			Elapsed: time.Since(start),
		})
	}

	return result, nil
}

func (d *Discoverer) workers() int {
	if d.Workers <= 0 {
		return DefaultWorkers
	}
	return d.Workers
}
