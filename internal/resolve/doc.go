// Package resolve turns user input into a device handle.
//
// A Request names a device by host, by alias or not at all:
//
//   - host: the handle is built directly when a kind hint is given,
//     otherwise the kind is detected with one unicast probe
//   - alias: up to Attempts broadcast rounds look for the alias, then the
//     address is resolved as above
//   - neither: one broadcast round must find exactly one device
//
// Resolver also exposes each step on its own for callers, such as the
// discover command, that need only part of the flow.
package resolve
