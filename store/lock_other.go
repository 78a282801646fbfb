//go:build !unix

package store

import (
	"os"
)

// Advisory locking is not available on this platform; writes rely on the
// filesystem's own open/write semantics.
func flockFile(*os.File, bool) error { return nil }

func funlockFile(*os.File) error { return nil }
