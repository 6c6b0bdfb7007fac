// Package logging provides structured logging for kasactl.
//
// This package wraps a zap logger with convenience functions for the
// patterns used by discovery and the device protocol. It is silent unless
// a level is configured, so library callers never see unexpected output.
//
// # Log Levels
//
//   - Debug: datagram hex dumps, request/response payloads
//   - Info: discovery round summaries, alias attempts
//   - Warn: malformed replies skipped during a round
//   - Error: failures the CLI is about to report
//
// # Configuration
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// With an empty level the KASACTL_LOG_LEVEL environment variable is used.
// Logs go to stderr so they never mix with command output.
//
// # Domain Helpers
//
//	logging.LogDatagram("sent", "255.255.255.255:9999", payload)
//	logging.LogSkippedReply("10.0.0.7:9999", "invalid JSON", data)
//	logging.LogRound(roundID, target, replies, devices)
package logging
