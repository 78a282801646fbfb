//go:build unix

package store

import (
	"os"

	"golang.org/x/sys/unix"
)

// flockFile takes a blocking advisory lock on the open file, shared for
// reads and exclusive for writes.
func flockFile(f *os.File, exclusive bool) error {
	how := unix.LOCK_SH
	if exclusive {
		how = unix.LOCK_EX
	}
	return unix.Flock(int(f.Fd()), how)
}

func funlockFile(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
