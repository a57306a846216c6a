package parser

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/ecnxdev/wdcflash/internal/image"
)

const (
	hexRecordData = 0
	hexRecordEOF  = 1
)

// ParseIntelHex decodes the standard ":BBAAAATT<data>CK" ASCII record
// format, handling only data (type 0) and EOF (type 1) records, and
// coalesces the resulting blocks before returning.
func ParseIntelHex(data []byte) (*image.Program, error) {
	prog := &image.Program{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if line[0] != ':' {
			return nil, ErrUnrecognizedFormat
		}
		done, err := parseHexLine(line[1:], prog)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	prog.Coalesce()
	return prog, nil
}

// parseHexLine decodes one Intel HEX record (without its leading
// ':') and reports whether an EOF record ended the stream.
func parseHexLine(line []byte, prog *image.Program) (bool, error) {
	raw, err := hex.DecodeString(string(line))
	if err != nil || len(raw) < 5 {
		return false, fmt.Errorf("intel hex: malformed record")
	}
	byteCount := int(raw[0])
	address := uint32(raw[1])<<8 | uint32(raw[2])
	recordType := raw[3]
	if len(raw) != 4+byteCount+1 {
		return false, fmt.Errorf("intel hex: byte count mismatch")
	}
	recordData := raw[4 : 4+byteCount]
	checksum := raw[4+byteCount]

	sum := byte(0)
	for _, b := range raw[:4+byteCount] {
		sum += b
	}
	calc := (sum - 1) ^ 0xFF
	if calc != checksum {
		return false, ErrChecksumMismatch
	}

	switch recordType {
	case hexRecordData:
		if !prog.HasEntry {
			prog.Entry = address
			prog.HasEntry = true
		}
		prog.Blocks = append(prog.Blocks, image.DataBlock{
			Address: address,
			Data:    append([]byte{}, recordData...),
		})
		return false, nil
	case hexRecordEOF:
		return true, nil
	default:
		return false, ErrUnsupportedHexRecord
	}
}
