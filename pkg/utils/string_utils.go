package utils

import "strings"

// NewNullString returns nil for a blank string so optional text columns store NULL.
func NewNullString(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// DerefString returns the pointed-to string, or "" for nil.
func DerefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
