package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// getEnv returns the parsed value of key, or defaultVal when the variable is
// unset or does not parse. Empty values count as unset.
func getEnv[T any](key string, defaultVal T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return defaultVal
	}
	value, err := parse(strings.TrimSpace(raw))
	if err != nil {
		return defaultVal
	}
	return value
}

func getEnvAsString(key string, defaultVal string) string {
	return getEnv(key, defaultVal, func(s string) (string, error) { return s, nil })
}

func getEnvAsInt(key string, defaultVal int) int {
	return getEnv(key, defaultVal, strconv.Atoi)
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	return getEnv(key, defaultVal, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

func getEnvAsBool(key string, defaultVal bool) bool {
	return getEnv(key, defaultVal, strconv.ParseBool)
}

// getEnvAsTimeDuration accepts Go duration strings ("90s", "15m") or a bare
// number of seconds.
func getEnvAsTimeDuration(key string, defaultVal time.Duration) time.Duration {
	return getEnv(key, defaultVal, func(s string) (time.Duration, error) {
		if seconds, err := strconv.Atoi(s); err == nil {
			return time.Duration(seconds) * time.Second, nil
		}
		return time.ParseDuration(s)
	})
}

// getEnvAsSlice splits a comma separated list, dropping blank entries.
func getEnvAsSlice(key string, defaultVal []string) []string {
	return getEnv(key, defaultVal, func(s string) ([]string, error) {
		var out []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	})
}
