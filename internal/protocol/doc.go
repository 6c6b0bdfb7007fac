// Package protocol implements the TP-Link Kasa local protocol.
//
// Kasa plugs, strips and bulbs listen on port 9999 for both UDP and TCP.
// Every payload is a JSON document obfuscated with an XOR autokey cipher
// (initial key 171). This package owns that lower layer: the cipher, TCP
// framing, the discovery query and a small request/response client.
//
// # Wire Format
//
// UDP datagrams (discovery) carry the encrypted JSON with no header:
//
//	[0..N]  encrypted JSON
//
// TCP frames (commands) prefix the encrypted JSON with its length:
//
//	[0-3]   length         Payload length (big-endian uint32)
//	[4+]    payload        Encrypted JSON
//
// # Requests
//
// A request names a module, a method and its arguments:
//
//	{"system":{"set_relay_state":{"state":1}}}
//
// Strip outlets are addressed with a context object:
//
//	{"context":{"child_ids":["...00"]},"system":{"set_relay_state":{"state":0}}}
//
// The response mirrors the request and carries err_code / err_msg per method.
// A non-zero err_code is returned as a *DeviceError.
//
// # Usage Example
//
//	client := protocol.NewClient("192.168.1.20")
//	info, err := client.Query("system", "get_sysinfo", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(info["alias"])
package protocol
