package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageError_WrapsAndUnwraps(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := NewStorageError("insert outing", cause)

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "insert outing: db error: disk I/O error", err.Error())

	var se *StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "insert outing", se.Op)
}

func TestNewStorageError_NilIsNil(t *testing.T) {
	assert.NoError(t, NewStorageError("noop", nil))
}

func TestInvalidArgument_MatchesSentinel(t *testing.T) {
	err := InvalidArgument("seat %d is empty", 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "seat 0 is empty")
}
