//go:build !unix && !windows

package lockfile

import "os"

// FlockExclusiveNonBlock is a no-op on platforms without file locking;
// such environments are single-process in practice.
func FlockExclusiveNonBlock(f *os.File) error {
	return nil
}

// FlockUnlock is a no-op on platforms without file locking.
func FlockUnlock(f *os.File) error {
	return nil
}
