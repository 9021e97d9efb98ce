package clierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSentinel = errors.New("sentinel")

func TestWithCauseUnwraps(t *testing.T) {
	err := Newf(ProjectNotFound, "project %q not found", "p1").WithCause(errSentinel)
	wrapped := fmt.Errorf("loading: %w", err)

	assert.ErrorIs(t, wrapped, errSentinel)
	assert.Equal(t, ProjectNotFound, CodeOf(wrapped))
	assert.EqualError(t, err, `project "p1" not found`)
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, InternalError, CodeOf(errors.New("boom")))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, New(InternalError, "x").ExitCode(), "internal errors")
	assert.Equal(t, 1, New(ValidationFailed, "x").ExitCode(), "domain errors")
}
