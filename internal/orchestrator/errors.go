package orchestrator

import "fmt"

// WriteFailed is returned when a WRITE_MEM/WRITE_FLASH status byte is
// not 0x00.
type WriteFailed struct{ Status byte }

func (e *WriteFailed) Error() string {
	return fmt.Sprintf("write failed, board status 0x%02X", e.Status)
}

// ReadFailed is returned when a read operation could not be completed.
type ReadFailed struct{ Reason string }

func (e *ReadFailed) Error() string { return "read failed: " + e.Reason }

// CannotUpdate is returned when an UPDATE handshake status byte does
// not match the expected phase value.
type CannotUpdate struct{ Status byte }

func (e *CannotUpdate) Error() string {
	return fmt.Sprintf("cannot update, board status 0x%02X", e.Status)
}

// BadFlash is returned when the final UPDATE confirmation does not
// report success; the board may be left in an inconsistent state.
type BadFlash struct{ Status byte }

func (e *BadFlash) Error() string {
	return fmt.Sprintf("update failed after point of no return, board status 0x%02X", e.Status)
}

// ErrUnknownBoard is returned when the CPU reported by BOARD_INFO is not
// recognised and the mode requires it (update mode).
var ErrUnknownBoard = fmt.Errorf("unknown board CPU, cannot proceed")

// InvalidUpdateImage is returned when the update pre-transmission
// validation fails.
type InvalidUpdateImage struct{ Reason string }

func (e *InvalidUpdateImage) Error() string { return "invalid update image: " + e.Reason }

// ErrUserAborted is returned when the operator declines the update
// confirmation prompt.
var ErrUserAborted = fmt.Errorf("user aborted")

// ErrMissingAddress is returned when a mode requires --address and it
// was not supplied.
var ErrMissingAddress = fmt.Errorf("--address is required for this mode")

// ErrMissingLength is returned when a mode requires --length and it
// was not supplied.
var ErrMissingLength = fmt.Errorf("--length is required for this mode")

// ErrInvalidLength is returned when --length was supplied but is
// less than 1, per the read mode's "--length >= 1" invariant.
var ErrInvalidLength = fmt.Errorf("--length must be >= 1")

// ErrMissingFile is returned when a mode requires a program image and
// none was given.
var ErrMissingFile = fmt.Errorf("an input file is required for this mode")
