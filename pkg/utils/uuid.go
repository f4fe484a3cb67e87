package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID generates a new record identifier
func NewID() string {
	return uuid.NewString()
}

// CleanName trims a reference name and collapses inner whitespace
func CleanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SameName compares two reference names ignoring case and spacing
func SameName(a, b string) bool {
	return strings.EqualFold(CleanName(a), CleanName(b))
}
