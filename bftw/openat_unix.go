//go:build linux || darwin || freebsd || openbsd || netbsd

package bftw

import "golang.org/x/sys/unix"

// atFDCWD is the sentinel "base directory" fd meaning "resolve relative to
// the current working directory", used for walk roots and the
// component-by-component ENAMETOOLONG fallback.
const atFDCWD = unix.AT_FDCWD

func openatDir(parentFd int, name string) (int, error) {
	return unix.Openat(parentFd, name, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
}

func openatFile(parentFd int, name string, follow bool) (int, error) {
	flags := unix.O_RDONLY | unix.O_CLOEXEC
	if !follow {
		flags |= unix.O_NOFOLLOW
	}
	return unix.Openat(parentFd, name, flags, 0)
}

func closeFd(fd int) error {
	return unix.Close(fd)
}

func dupFd(fd int) (int, error) {
	return unix.Dup(fd)
}
