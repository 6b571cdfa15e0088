package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	URL         string `validate:"required,url"`
	Concurrency int    `validate:"gte=1,lte=64"`
}

func TestValidate(t *testing.T) {
	t.Run("valid struct passes", func(t *testing.T) {
		require.NoError(t, Validate(sampleConfig{URL: "http://localhost:5000", Concurrency: 4}))
	})

	t.Run("violations report snake_case fields", func(t *testing.T) {
		err := Validate(sampleConfig{Concurrency: 0})
		require.Error(t, err)
		require.True(t, IsValidationError(err))

		errs := err.(ValidationErrors)
		require.Len(t, errs, 2)
		assert.Equal(t, "url", errs[0].Field)
		assert.Equal(t, "is required", errs[0].Message)
		assert.Equal(t, "concurrency", errs[1].Field)
		assert.Contains(t, errs[1].Message, "greater than or equal to 1")
	})

	t.Run("error string joins all violations", func(t *testing.T) {
		err := Validate(sampleConfig{URL: "not a url", Concurrency: 128})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be a valid URL")
		assert.Contains(t, err.Error(), "less than or equal to 64")
	})
}
