//go:build !(linux || darwin || freebsd || openbsd || netbsd)

package bftw

import "syscall"

type statFlag uint8

const (
	statNoFollow statFlag = iota
	statFollow
	statTryFollow
)

type statResult struct {
	dev, ino uint64
	mode     uint32
}

func statAt(parentFd int, name string, flag statFlag) (statResult, error) {
	return statResult{}, syscall.ENOSYS
}

func typeFromMode(mode uint32) Type {
	return EType.Unknown()
}
