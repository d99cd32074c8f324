package core

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError(errors.New("boom"), FieldError{Field: "email", Error: "taken"})

	vErr, ok := err.(*ValidationError)
	assert.True(t, ok)
	assert.Equal(t, "boom", vErr.Error())
	assert.Equal(t, []FieldError{{Field: "email", Error: "taken"}}, vErr.Fields)

	assert.Empty(t, (&ValidationError{}).Error())
}

func TestIsShutdown(t *testing.T) {
	err := NewShutdownError("going down")
	assert.Equal(t, "going down", err.Error())
	assert.True(t, IsShutdown(err))
	assert.True(t, IsShutdown(errors.Wrap(err, "handling request")))
	assert.False(t, IsShutdown(errors.New("boom")))
}
