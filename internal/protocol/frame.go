package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// DefaultPort is the Kasa local protocol port (UDP discovery and TCP commands)
	DefaultPort = 9999

	// HeaderSize is the size of the TCP length prefix
	HeaderSize = 4

	// MaxFrameSize bounds a single TCP response. Real sysinfo replies are a few KiB.
	MaxFrameSize = 64 * 1024
)

// EncodeFrame encrypts payload and prepends the big-endian length header used on TCP.
func EncodeFrame(payload []byte) []byte {
	frame := make([]byte, HeaderSize+len(payload))
	binary.BigEndian.PutUint32(frame[:HeaderSize], uint32(len(payload)))
	copy(frame[HeaderSize:], Encrypt(payload))
	return frame
}

// WriteFrame writes one encrypted, length-prefixed payload to w.
func WriteFrame(w io.Writer, payload []byte) error {
	if _, err := w.Write(EncodeFrame(payload)); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// ReadFrame reads one length-prefixed frame from r and returns the decrypted payload.
func ReadFrame(r io.Reader) ([]byte, error) {
	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("failed to read frame header: %w", err)
	}

	length := binary.BigEndian.Uint32(header)
	if length > MaxFrameSize {
		return nil, fmt.Errorf("frame too large: %d bytes (max %d)", length, MaxFrameSize)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("failed to read frame payload (%d bytes): %w", length, err)
	}

	return Decrypt(body), nil
}

// EncodeDatagram encrypts payload for UDP. Datagrams carry no length header.
func EncodeDatagram(payload []byte) []byte {
	return Encrypt(payload)
}

// DecodeDatagram decrypts a UDP payload.
func DecodeDatagram(data []byte) []byte {
	return Decrypt(data)
}
