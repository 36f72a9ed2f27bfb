package utils

import (
	"os"
	"strconv"
	"strings"
)

// ParseInteger parses an environment variable as an integer with a default value.
func ParseInteger(envVar string, defaultValue int) int {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// ParseFloat parses an environment variable as a float with a default value.
func ParseFloat(envVar string, defaultValue float64) float64 {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// ParseBoolean parses an environment variable as a boolean with a default value.
func ParseBoolean(envVar string, defaultValue bool) bool {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(strings.ToLower(value))
	if err != nil {
		return defaultValue
	}
	return parsed
}

// ParseString reads an environment variable with a default value.
func ParseString(envVar string, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(envVar))
	if value == "" {
		return defaultValue
	}
	return value
}

// ParseArray parses a comma-separated environment variable into a slice.
func ParseArray(envVar string, defaultValue []string) []string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	parts := SplitAndTrim(value, ",")
	if len(parts) == 0 {
		return defaultValue
	}
	return parts
}
