package bftw

import (
	"errors"
	"io"
	"os"
)

// readdirnames lists the names in the directory referred to by fd,
// without taking ownership of fd: it works against a dup()'d descriptor
// so that os.File's finalizer closing the dup doesn't touch the cache's
// own copy.
func readdirnames(fd int) ([]string, error) {
	dup, err := dupFd(fd)
	if err != nil {
		return nil, err
	}
	f := os.NewFile(uintptr(dup), "")
	defer f.Close()

	var names []string
	for {
		chunk, err := f.Readdirnames(dirReadChunk)
		names = append(names, chunk...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
	}
	return names, nil
}
