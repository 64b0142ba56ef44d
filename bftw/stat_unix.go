//go:build linux || darwin || freebsd || openbsd || netbsd

package bftw

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// statFlag selects link-following behavior for statAt, mirroring
// BFS_STAT_FOLLOW/BFS_STAT_NOFOLLOW/BFS_STAT_TRYFOLLOW in the original.
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

// statAt stats name relative to parentFd, honoring flag's link-following
// policy. TryFollow attempts a following stat first and falls back to a
// non-following one only when the target is a dangling symlink (ENOENT);
// any other error from the following stat is returned as-is, exactly as
// bftw_stat_impl's BFS_STAT_TRYFOLLOW case does.
func statAt(parentFd int, name string, flag statFlag) (statResult, error) {
	var at unix.Stat_t

	switch flag {
	case statFollow:
		if err := unix.Fstatat(parentFd, name, &at, 0); err != nil {
			return statResult{}, err
		}
	case statTryFollow:
		err := unix.Fstatat(parentFd, name, &at, 0)
		if err != nil {
			if err != syscall.ENOENT {
				return statResult{}, err
			}
			if err = unix.Fstatat(parentFd, name, &at, unix.AT_SYMLINK_NOFOLLOW); err != nil {
				return statResult{}, err
			}
		}
	default:
		if err := unix.Fstatat(parentFd, name, &at, unix.AT_SYMLINK_NOFOLLOW); err != nil {
			return statResult{}, err
		}
	}

	return statResult{
		dev:  uint64(at.Dev),  //nolint:unconvert // width differs across unix targets
		ino:  uint64(at.Ino),
		mode: uint32(at.Mode),
	}, nil
}

// typeFromMode maps a raw st_mode to this package's Type enum.
func typeFromMode(mode uint32) Type {
	switch mode & syscall.S_IFMT {
	case syscall.S_IFREG:
		return EType.Reg()
	case syscall.S_IFDIR:
		return EType.Dir()
	case syscall.S_IFLNK:
		return EType.Lnk()
	case syscall.S_IFBLK:
		return EType.Blk()
	case syscall.S_IFCHR:
		return EType.Chr()
	case syscall.S_IFIFO:
		return EType.Fifo()
	case syscall.S_IFSOCK:
		return EType.Sock()
	default:
		return EType.Unknown()
	}
}
