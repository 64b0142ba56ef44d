package bftw

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrnoUnwrapsWrappedError(t *testing.T) {
	err := wrapErr("open", "/tmp/missing", syscall.ENOENT)
	assert.True(t, isENOENT(err))
	assert.False(t, isELOOP(err))
	assert.Equal(t, syscall.ENOENT, errno(err))
}

func TestErrnoNilError(t *testing.T) {
	assert.Equal(t, syscall.Errno(0), errno(nil))
}

func TestErrorMessageIncludesOpAndPath(t *testing.T) {
	err := wrapErr("stat", "/tmp/x", syscall.ENAMETOOLONG)
	assert.Contains(t, err.Error(), "stat")
	assert.Contains(t, err.Error(), "/tmp/x")
	assert.True(t, isENAMETOOLONG(err))
}
