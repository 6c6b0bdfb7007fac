// Package transport sends one discovery probe and collects raw replies.
//
// A probe is a single UDP datagram (broadcast or unicast) carrying the
// encrypted discovery query. The probe then listens for the full timeout
// window, because a broadcast can be answered by any number of devices.
// Replies are delivered lazily through a Round; a Round is finite (it ends
// at the deadline) and cannot be restarted.
//
// # Failure Semantics
//
//   - Socket errors (resolve, listen, send, receive) end the round and are
//     reported as *OpError, either from Probe or from Round.Err.
//   - A reply that does not decrypt to valid JSON is logged and skipped.
//     One bad respondent never aborts the round.
//
// # Usage Example
//
//	probe := transport.NewUDPProbe()
//	round, err := probe.Probe("255.255.255.255", 3*time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer round.Close()
//
//	for reply := range round.Replies() {
//	    fmt.Printf("%s answered with %d bytes\n", reply.Source, len(reply.Payload))
//	}
//	if err := round.Err(); err != nil {
//	    log.Fatal(err)
//	}
package transport
