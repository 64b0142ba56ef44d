//go:build !(linux || darwin || freebsd || openbsd || netbsd)

package bftw

import "syscall"

// On platforms without openat(2) (notably Windows), these primitives are
// stubs that fail with ENOSYS, so the package compiles there but cannot
// open, close, or dup a descriptor; there is no absolute-path fallback.
const atFDCWD = -1

func openatDir(parentFd int, name string) (int, error) {
	return -1, syscall.ENOSYS
}

func openatFile(parentFd int, name string, follow bool) (int, error) {
	return -1, syscall.ENOSYS
}

func closeFd(fd int) error {
	return syscall.ENOSYS
}

func dupFd(fd int) (int, error) {
	return -1, syscall.ENOSYS
}
