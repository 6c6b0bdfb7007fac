// Package device builds typed handles for resolved Kasa devices and
// provides their command capability sets.
//
// A Handle pairs an address with an immutable Kind and a Device, the
// capability set for that kind. Optional capabilities are separate
// interfaces discovered with a type assertion:
//
//	if d, ok := handle.Device().(device.Dimmer); ok {
//	    err := d.SetBrightness(50)
//	}
//
// # Kinds
//
//   - Plug: relay, LED, dimmer (HS220), emeter (HS110)
//   - Strip: a Plug whose outlets can be switched individually
//   - Bulb: lighting service state, brightness, color temperature, HSV
//
// # Factory
//
// Factory.ResolveTyped trusts the caller's kind and never touches the
// network. Factory.ResolveSingle runs one unicast discovery round against
// the address and classifies the reply.
package device
