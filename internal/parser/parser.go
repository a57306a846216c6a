// Package parser decodes the three object-file formats the bootloader
// accepts (raw binary, Z-record, Intel HEX) into the uniform
// image.Program representation.
package parser

import (
	"errors"
	"strings"

	"github.com/ecnxdev/wdcflash/internal/image"
)

var (
	// ErrUnrecognizedFormat means neither the file extension nor the
	// leading byte identified a known format.
	ErrUnrecognizedFormat = errors.New("unrecognized object file format")
	// ErrChecksumMismatch means an Intel HEX record's stored checksum
	// did not match the computed one.
	ErrChecksumMismatch = errors.New("intel hex checksum mismatch")
	// ErrUnsupportedHexRecord means an Intel HEX record type other
	// than 0 (data) or 1 (EOF) was encountered.
	ErrUnsupportedHexRecord = errors.New("unsupported intel hex record type")
	// ErrTruncated means a Z-record stream ended before a record it
	// declared was fully present. Intel HEX length errors are reported
	// as a malformed or byte-count-mismatch error instead.
	ErrTruncated = errors.New("truncated object file")
)

// Options carries the parse-time context the raw-binary format needs
// (a default load address) that the file content itself never
// carries. The CLI's -a/--address maps directly onto it.
type Options struct {
	HasAddress bool
	Address    uint32
}

// Parse selects a decoder by file extension and, failing that, by
// the first byte of data, and runs it.
func Parse(filename string, data []byte, opts Options) (*image.Program, error) {
	lower := strings.ToLower(filename)
	if strings.HasSuffix(lower, ".bin") || strings.HasSuffix(lower, ".out") {
		return ParseRaw(data, opts)
	}
	if len(data) == 0 {
		return nil, ErrUnrecognizedFormat
	}
	switch data[0] {
	case 0x5A: // 'Z'
		return ParseZRecord(data)
	case 0x3A: // ':'
		return ParseIntelHex(data)
	default:
		return nil, ErrUnrecognizedFormat
	}
}
