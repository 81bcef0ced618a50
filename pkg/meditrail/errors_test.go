package meditrail

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIErrorMatchesOnlyItsKind(t *testing.T) {
	err := newAPIError(KindUsageLimitExceeded, 429, "Usage limit exceeded", nil)

	assert.ErrorIs(t, err, ErrUsageLimitExceeded)
	assert.NotErrorIs(t, err, ErrServerError)
	assert.NotErrorIs(t, err, ErrHTTP)
}

func TestAPIErrorUnwrapsCause(t *testing.T) {
	err := fmt.Errorf("upload: %w", wrapAPIError(KindTimeout, "Request timed out", context.DeadlineExceeded))

	assert.ErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, KindTimeout, KindOf(err))
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "HttpError", KindHTTP.String())
	assert.Equal(t, "FileTooLarge", KindFileTooLarge.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}

func TestClassifyTransportError(t *testing.T) {
	assert.Equal(t, KindTimeout, classifyTransportError(context.DeadlineExceeded).Kind)
	assert.Equal(t, KindConnectionFailed, classifyTransportError(errors.New("dial tcp: connection refused")).Kind)

	canceled := classifyTransportError(context.Canceled)
	assert.Equal(t, KindConnectionFailed, canceled.Kind)
	assert.Equal(t, "Request canceled", canceled.Message)
}
