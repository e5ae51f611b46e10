package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	slugInvalid = regexp.MustCompile("[^a-z0-9 -]+")
	slugHyphens = regexp.MustCompile("-+")
)

// GenerateSlug converts a string into a URL-friendly slug.
// e.g. "Döner Box (Large)" -> "dner-box-large"
func GenerateSlug(input string) string {
	s := strings.ToLower(input)
	s = slugInvalid.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, " ", "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ParseInt parses a string to int with a fallback default value
func ParseInt(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return val
}

// ParseFloat parses a string to float64 with a fallback default value
func ParseFloat(s string, defaultVal float64) float64 {
	if s == "" {
		return defaultVal
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return defaultVal
	}
	return val
}
