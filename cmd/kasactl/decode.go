package main

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/kasactl/internal/discovery"
	"github.com/muurk/kasactl/internal/protocol"
)

func newDecodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode [HEX]...",
		Short: "Decrypt captured Kasa payloads",
		Long: `Decrypt hex-encoded Kasa payloads, for example copied from a packet capture.

TCP frames are recognised by their length prefix, anything else is treated
as a UDP datagram. With no arguments one payload per line is read from stdin.`,
		Example: `  kasactl decode "$(cat reply.hex)"
  kasactl decode < payloads.txt`,
		RunE: func(_ *cobra.Command, args []string) error {
			inputs := args
			if len(inputs) == 0 {
				scanner := bufio.NewScanner(a.in)
				scanner.Buffer(make([]byte, 0, 64*1024), 4*protocol.MaxFrameSize)
				for scanner.Scan() {
					if line := strings.TrimSpace(scanner.Text()); line != "" {
						inputs = append(inputs, line)
					}
				}
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("failed to read payloads: %w", err)
				}
			}
			if len(inputs) == 0 {
				return discovery.NewInvalidArgument("no payloads given")
			}

			for i, in := range inputs {
				data, err := hex.DecodeString(strings.ReplaceAll(in, " ", ""))
				if err != nil {
					return discovery.NewInvalidArgument("payload %d is not valid hex: %v", i+1, err)
				}
				a.printDecoded(i+1, data)
			}
			return nil
		},
	}
}

// printDecoded prints one decrypted payload as indented JSON, or as a hex
// dump when it does not decrypt to JSON
func (a *app) printDecoded(n int, data []byte) {
	framing := "datagram"
	body := data
	if len(data) >= protocol.HeaderSize &&
		int(binary.BigEndian.Uint32(data[:protocol.HeaderSize])) == len(data)-protocol.HeaderSize {
		framing = "frame"
		body = data[protocol.HeaderSize:]
	}
	plain := protocol.DecodeDatagram(body)

	a.out.Printf("Message #%d - %d bytes - %s\n", n, len(body), framing)

	var pretty bytes.Buffer
	if json.Valid(plain) && json.Indent(&pretty, plain, "", "  ") == nil {
		a.out.Println(pretty.String())
		return
	}

	a.out.Println("Not JSON after decryption:")
	a.out.Print(hexDump(plain))
}

// hexDump renders 16 bytes per line with an ASCII column
func hexDump(data []byte) string {
	var b strings.Builder
	for i := 0; i < len(data); i += 16 {
		fmt.Fprintf(&b, "%04x  ", i)
		for j := 0; j < 16; j++ {
			if i+j < len(data) {
				fmt.Fprintf(&b, "%02x ", data[i+j])
			} else {
				b.WriteString("   ")
			}
			if j == 7 {
				b.WriteByte(' ')
			}
		}
		b.WriteString(" |")
		for j := 0; j < 16 && i+j < len(data); j++ {
			c := data[i+j]
			if c < 32 || c > 126 {
				c = '.'
			}
			b.WriteByte(c)
		}
		b.WriteString("|\n")
	}
	return b.String()
}
