package serialport

import "path/filepath"

// ListDevices returns candidate tty device nodes, mirroring the
// original tool's glob of /dev/tty[A-Za-z]* (which deliberately
// excludes the invoking process's own controlling terminal /dev/tty).
func ListDevices() ([]string, error) {
	matches, err := filepath.Glob("/dev/tty[A-Za-z]*")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, m := range matches {
		p, err := OpenPort(m)
		if err != nil {
			continue
		}
		p.Close()
		out = append(out, m)
	}
	return out, nil
}
