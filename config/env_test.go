package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvAsTimeDuration(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"duration string", "90s", 90 * time.Second},
		{"minutes", "15m", 15 * time.Minute},
		{"bare seconds", "30", 30 * time.Second},
		{"garbage falls back", "soon", 5 * time.Second},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("POOLCARE_TEST_DURATION", tc.value)
			assert.Equal(t, tc.want, getEnvAsTimeDuration("POOLCARE_TEST_DURATION", 5*time.Second))
		})
	}
}

func TestGetEnvAsSlice(t *testing.T) {
	t.Setenv("POOLCARE_TEST_SLICE", " https://a.example , ,https://b.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, getEnvAsSlice("POOLCARE_TEST_SLICE", nil))

	assert.Equal(t, []string{"x"}, getEnvAsSlice("POOLCARE_TEST_SLICE_UNSET", []string{"x"}))
}

func TestGetEnvAsIntAndBool(t *testing.T) {
	t.Setenv("POOLCARE_TEST_INT", "42")
	t.Setenv("POOLCARE_TEST_BOOL", "true")
	t.Setenv("POOLCARE_TEST_BAD_INT", "forty")

	assert.Equal(t, 42, getEnvAsInt("POOLCARE_TEST_INT", 1))
	assert.Equal(t, 1, getEnvAsInt("POOLCARE_TEST_BAD_INT", 1))
	assert.True(t, getEnvAsBool("POOLCARE_TEST_BOOL", false))
}

func TestLoadRoutes(t *testing.T) {
	t.Setenv("ROUTE_ADMIN_HOME", "/office")

	cfg := Load()
	assert.Equal(t, "/office", cfg.Routes.AdminHome)
	assert.Equal(t, "/login", cfg.Routes.LoginPath)
	assert.Equal(t, "/dashboard", cfg.Routes.CustomerHome)
}

func TestGetEnvBlankFallsBack(t *testing.T) {
	t.Setenv("POOLCARE_TEST_BLANK", "   ")
	assert.Equal(t, "fallback", getEnvAsString("POOLCARE_TEST_BLANK", "fallback"))
	assert.Equal(t, 2.5, getEnvAsFloat("POOLCARE_TEST_BLANK", 2.5))

	t.Setenv("POOLCARE_TEST_PADDED", "  8.25 ")
	assert.Equal(t, 8.25, getEnvAsFloat("POOLCARE_TEST_PADDED", 0))
}
