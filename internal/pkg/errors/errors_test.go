package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	t.Run("message without cause", func(t *testing.T) {
		err := Fetch("runs for experiment 7")
		assert.Equal(t, "FETCH_ERROR: failed to fetch runs for experiment 7", err.Error())
	})

	t.Run("message with cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := Connectivity("tracking server unreachable").WithError(cause)
		assert.Contains(t, err.Error(), "CONNECTIVITY_ERROR")
		assert.Contains(t, err.Error(), "connection refused")
		assert.ErrorIs(t, err, cause)
	})

	t.Run("details accumulate", func(t *testing.T) {
		err := Fetch("experiments").WithDetail("status", "500").WithDetail("attempt", "1")
		assert.Equal(t, "500", err.Details["status"])
		assert.Equal(t, "1", err.Details["attempt"])
	})
}

func TestCodePredicates(t *testing.T) {
	t.Run("direct errors", func(t *testing.T) {
		assert.True(t, IsConnectivity(Connectivity("down")))
		assert.True(t, IsFetch(Fetch("runs")))
		assert.True(t, IsNotFound(NotFound("experiment 1")))
		assert.True(t, IsValidation(Validation("bad url")))
		assert.True(t, IsSerialization(Serialization("bad path")))
	})

	t.Run("wrapped errors", func(t *testing.T) {
		err := fmt.Errorf("dump failed: %w", Serialization("bad path"))
		assert.True(t, IsSerialization(err))
		assert.False(t, IsFetch(err))
	})

	t.Run("nested app errors resolve to the outermost code", func(t *testing.T) {
		inner := Fetch("health")
		outer := Connectivity("tracking server unreachable").WithError(inner)
		assert.True(t, IsConnectivity(outer))
		assert.False(t, IsFetch(outer))
	})

	t.Run("plain errors match nothing", func(t *testing.T) {
		err := errors.New("boom")
		assert.False(t, IsAppError(err))
		assert.False(t, IsConnectivity(err))
		assert.Nil(t, GetAppError(err))
	})
}
