package errors

import (
	stderrors "errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := ConfigInvalid("NSTEPS must be positive")
	wrapped := Wrapf(base, "loading %s", "run.yaml")

	assert.Equal(t, CodeConfigInvalid, GetCode(wrapped))
	assert.Equal(t, "loading run.yaml: NSTEPS must be positive", wrapped.Error())
	assert.True(t, stderrors.Is(wrapped, base))
}

func TestWrapForeignError(t *testing.T) {
	wrapped := Wrap(fs.ErrNotExist, "open result")

	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.ErrorIs(t, wrapped, fs.ErrNotExist)
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestCodedConstructors(t *testing.T) {
	io := IOError("out.xlsx", fs.ErrPermission)
	assert.Equal(t, CodeIO, io.Code)
	assert.ErrorIs(t, io, fs.ErrPermission)

	inv := InversionFailed(fs.ErrClosed)
	assert.Equal(t, CodeInversionFailed, GetCode(Wrap(inv, "predict")))

	coded := WithCode(CodeInvalidInput, fs.ErrInvalid)
	assert.Equal(t, CodeInvalidInput, GetCode(coded))
	assert.Equal(t, fs.ErrInvalid.Error(), coded.Error())
}
