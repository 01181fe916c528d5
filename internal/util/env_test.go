package util_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github/frak-labs/go-smart-wallet/internal/util"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("UTIL_TEST_STRING", "value")
	t.Setenv("UTIL_TEST_INT", "42")
	t.Setenv("UTIL_TEST_BOOL", "true")
	t.Setenv("UTIL_TEST_DURATION", "3s")

	assert.Equal(t, "value", util.GetEnv("UTIL_TEST_STRING", "default"))
	assert.Equal(t, "default", util.GetEnv("UTIL_TEST_STRING_MISSING", "default"))
	assert.Equal(t, 42, util.GetEnvAsInt("UTIL_TEST_INT", 1))
	assert.Equal(t, 1, util.GetEnvAsInt("UTIL_TEST_STRING", 1))
	assert.True(t, util.GetEnvAsBool("UTIL_TEST_BOOL", false))
	assert.Equal(t, 3*time.Second, util.GetEnvAsDuration("UTIL_TEST_DURATION", time.Second))
}

func TestGetEnvAsArrays(t *testing.T) {
	t.Setenv("UTIL_TEST_ARR", " http://a , ,http://b")
	t.Setenv("UTIL_TEST_UINT_ARR", "10,abc,8453")

	assert.Equal(t, []string{"http://a", "http://b"}, util.GetEnvAsStringArr("UTIL_TEST_ARR", nil))
	assert.Equal(t, []string{"x"}, util.GetEnvAsStringArr("UTIL_TEST_ARR_MISSING", []string{"x"}))
	assert.Equal(t, []uint64{10, 8453}, util.GetEnvAsUint64Arr("UTIL_TEST_UINT_ARR", nil))
}

func TestIsStructInitialized(t *testing.T) {
	type deps struct {
		A *int
		B map[string]int
		C *int `wire:"-"`
	}

	one := 1
	assert.NoError(t, util.IsStructInitialized(&deps{A: &one, B: map[string]int{}}))
	assert.Error(t, util.IsStructInitialized(&deps{A: &one}))
	assert.Error(t, util.IsStructInitialized(nil))
}
