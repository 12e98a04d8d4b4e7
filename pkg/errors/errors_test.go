package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsIdentity(t *testing.T) {
	clone := Clone(ErrNotFound, "student not found")
	assert.Equal(t, "student not found", clone.Message)
	assert.Equal(t, http.StatusNotFound, clone.Status)
	assert.True(t, stdErrors.Is(clone, ErrNotFound))
	assert.False(t, stdErrors.Is(clone, ErrConflict))
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	err := FromError(stdErrors.New("boom"))
	assert.Equal(t, ErrInternal.Code, err.Code)
	assert.Equal(t, "internal server error: boom", err.Error())
	assert.Nil(t, FromError(nil))
}

func TestCauseUnwraps(t *testing.T) {
	root := stdErrors.New("dial tcp: refused")
	err := Cause(ErrFeedbackTransport, root)
	assert.True(t, stdErrors.Is(err, root))
	assert.True(t, stdErrors.Is(err, ErrFeedbackTransport))
	assert.Nil(t, ErrFeedbackTransport.Err)
}
