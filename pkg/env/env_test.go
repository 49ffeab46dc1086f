package env_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/code-with-shadow/adhunik-art/pkg/env"
)

func TestGet(t *testing.T) {
	t.Setenv("ADHUNIK_TEST_SET", "value")
	t.Setenv("ADHUNIK_TEST_EMPTY", "")

	assert.Equal(t, "value", env.Get("ADHUNIK_TEST_SET", "fallback"))
	assert.Equal(t, "fallback", env.Get("ADHUNIK_TEST_EMPTY", "fallback"))
	assert.Equal(t, "fallback", env.Get("ADHUNIK_TEST_UNSET", "fallback"))
}
