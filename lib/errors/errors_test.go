package errors

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageCarriesCode(t *testing.T) {
	err := New(CodeParameter, "key must not be empty")
	assert.Equal(t, "parameter error: key must not be empty", err.Error())
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fs.ErrPermission
	err := Wrap(CodeIO, "writing record file failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "io error")
	assert.Contains(t, err.Error(), cause.Error())
}

func TestCodeOf(t *testing.T) {
	code, ok := CodeOf(New(CodeService, "boom"))
	assert.True(t, ok)
	assert.Equal(t, CodeService, code)

	// wrapped further down a chain
	wrapped := fmt.Errorf("outer: %w", New(CodeEncoding, "inner"))
	code, ok = CodeOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, CodeEncoding, code)

	_, ok = CodeOf(fmt.Errorf("plain"))
	assert.False(t, ok)
	_, ok = CodeOf(nil)
	assert.False(t, ok)
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsParameter(New(CodeParameter, "x")))
	assert.True(t, IsEncoding(New(CodeEncoding, "x")))
	assert.True(t, IsConfiguration(New(CodeConfiguration, "x")))
	assert.True(t, IsIO(New(CodeIO, "x")))
	assert.True(t, IsService(New(CodeService, "x")))

	assert.False(t, IsParameter(New(CodeIO, "x")))
	assert.False(t, IsService(nil))
}
