// Package discovery finds Kasa devices on the local network and resolves
// aliases to addresses.
//
// # Discovery Process
//
// One discovery round works as follows:
//  1. A single encrypted get_sysinfo query is sent to the target (usually the
//     broadcast address 255.255.255.255, or one device for auto-detection)
//  2. Every reply that arrives within the timeout is decoded by a small pool
//     of workers
//  3. Replies are folded into a Result keyed by source address; when one
//     address answers more than once the last reply wins
//  4. Replies that cannot be parsed are logged and skipped
//
// # Usage Example
//
//	d := discovery.NewDiscoverer(transport.NewUDPProbe())
//	result, err := d.Discover("255.255.255.255", 3*time.Second, false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, desc := range result.Sorted() {
//	    fmt.Printf("%s %q (%s)\n", desc.Addr, desc.Alias, desc.Kind)
//	}
//
// # Alias Resolution
//
// AliasResolver runs up to N sequential rounds looking for a descriptor
// whose alias matches case-insensitively. Matching among duplicates picks
// the lowest address. If no round matches the resolver returns a NotFound
// error; if every round failed at the socket level it returns a transport
// error instead.
//
// # Errors
//
// All failures are *ResolveError values carrying an ErrorType. Use
// errors.Is with the Err* sentinels, or the Is* predicates.
package discovery
