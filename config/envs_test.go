package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvHelpers(t *testing.T) {
	t.Run("Default when unset", func(t *testing.T) {
		assert.Equal(t, "fallback", getEnvWithDefault("PICOBOT_TEST_UNSET", "fallback"))
		assert.Equal(t, 7, getEnvAsIntWithDefault("PICOBOT_TEST_UNSET", 7))
	})

	t.Run("Value when set", func(t *testing.T) {
		t.Setenv("PICOBOT_TEST_STR", "value")
		t.Setenv("PICOBOT_TEST_INT", "42")
		assert.Equal(t, "value", getEnvWithDefault("PICOBOT_TEST_STR", "fallback"))
		assert.Equal(t, 42, getEnvAsIntWithDefault("PICOBOT_TEST_INT", 7))
	})

	t.Run("Empty integer uses default", func(t *testing.T) {
		t.Setenv("PICOBOT_TEST_INT", "")
		assert.Equal(t, 7, getEnvAsIntWithDefault("PICOBOT_TEST_INT", 7))
	})

	t.Run("List values", func(t *testing.T) {
		t.Setenv("PICOBOT_TEST_LIST", " https://a.example, ,https://b.example ")
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, getEnvAsListWithDefault("PICOBOT_TEST_LIST", nil))
		assert.Equal(t, []string{"x"}, getEnvAsListWithDefault("PICOBOT_TEST_UNSET", []string{"x"}))
	})

	t.Run("Package defaults", func(t *testing.T) {
		assert.NotEmpty(t, Envs.ReportStore)
		assert.Greater(t, Envs.MoveBudget, 0)
	})
}
