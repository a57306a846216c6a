package serialport

import (
	ioctl "github.com/daedaluz/goioctl"
	"unsafe"
)

// Linux ioctl request codes. These are kernel ABI constants, not a
// style choice; they must match <asm-generic/ioctls.h> exactly.
var (
	tcgets2 = ioctl.IOR('T', 0x2A, unsafe.Sizeof(Termios2{}))
	tcsets2 = ioctl.IOW('T', 0x2B, unsafe.Sizeof(Termios2{}))

	tiocmget = uintptr(0x5415) // get status of modem bits
	tiocmbis = uintptr(0x5416) // set indicated bits
	tiocmbic = uintptr(0x5417) // clear indicated bits
	tiocmset = uintptr(0x5418) // set status of modem bits
)
