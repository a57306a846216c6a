// Package boardinfo decodes the bootloader's 12-byte BOARD_INFO
// response into a typed identity, resolving the family/CPU codes the
// board reports.
package boardinfo

import "fmt"

// Family identifies the board product line.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyMymensch
	FamilySXB
)

// MymenschVariant distinguishes the A/B/C hardware revisions of the
// Mymensch family; meaningless for any other Family.
type MymenschVariant byte

const (
	VariantNone MymenschVariant = 0
	VariantA    MymenschVariant = 'A'
	VariantB    MymenschVariant = 'B'
	VariantC    MymenschVariant = 'C'
)

// CPU identifies the processor core the board carries.
type CPU int

const (
	CPUUnknown CPU = iota
	CPUW65C02
	CPUW65C816
)

// Info is the decoded identity of a connected board.
type Info struct {
	Family     Family
	Variant    MymenschVariant
	CPU        CPU
	HWVersion  float64
	SWVersion  float64
}

// ErrWrongLength is returned when the response is not exactly 12
// bytes, per the protocol's "unable to get board info" case.
var ErrWrongLength = fmt.Errorf("board info response must be 12 bytes")

// Decode interprets a 12-byte BOARD_INFO response.
//
// Layout: 2 bytes family tag ("MY" or "SX"), 1 byte variant/family
// detail ('A'/'B'/'C' for Mymensch, 'B' for SXB), 1 byte CPU code
// ('2'=W65C02, '6'=W65C816), 4 bytes hardware version (LE uint32,
// Q14.2 — divide by 100), 4 bytes software version (same encoding).
func Decode(data []byte) (Info, error) {
	if len(data) != 12 {
		return Info{}, ErrWrongLength
	}
	var info Info
	switch {
	case data[0] == 'M' && data[1] == 'Y':
		info.Family = FamilyMymensch
		switch data[2] {
		case 'A', 'B', 'C':
			info.Variant = MymenschVariant(data[2])
		}
	case data[0] == 'S' && data[1] == 'X' && data[2] == 'B':
		info.Family = FamilySXB
	default:
		info.Family = FamilyUnknown
	}

	switch data[3] {
	case '2':
		info.CPU = CPUW65C02
	case '6':
		info.CPU = CPUW65C816
	default:
		info.CPU = CPUUnknown
	}

	hw := uint32(data[4]) | uint32(data[5])<<8 | uint32(data[6])<<16 | uint32(data[7])<<24
	sw := uint32(data[8]) | uint32(data[9])<<8 | uint32(data[10])<<16 | uint32(data[11])<<24
	info.HWVersion = float64(hw) / 100
	info.SWVersion = float64(sw) / 100
	return info, nil
}

func (f Family) String() string {
	switch f {
	case FamilyMymensch:
		return "Mymensch"
	case FamilySXB:
		return "SXB"
	default:
		return "Unknown"
	}
}

func (c CPU) String() string {
	switch c {
	case CPUW65C02:
		return "W65C02"
	case CPUW65C816:
		return "W65C816"
	default:
		return "Unknown"
	}
}

// String renders a one-line human summary, e.g. "Mymensch(B)
// W65C816 hw=1.00 sw=2.00".
func (i Info) String() string {
	fam := i.Family.String()
	if i.Family == FamilyMymensch && i.Variant != VariantNone {
		fam = fmt.Sprintf("%s(%c)", fam, byte(i.Variant))
	}
	return fmt.Sprintf("%s %s hw=%.2f sw=%.2f", fam, i.CPU, i.HWVersion, i.SWVersion)
}
