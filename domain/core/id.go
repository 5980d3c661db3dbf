package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Use UUID v7 for time-ordered, sortable IDs
	// Falls back to v4 if v7 is not available (for compatibility)
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	ScanID       ID
	ParameterKey ID
)

// String conversions for domain IDs
func (id ScanID) String() string       { return ID(id).String() }
func (id ParameterKey) String() string { return ID(id).String() }

// NewScanID creates a fresh scan result identifier
func NewScanID() ScanID {
	return ScanID(NewID())
}

// ParseScanID parses a string into ScanID
func ParseScanID(s string) (ScanID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("scan ID cannot be empty")
	}
	return ScanID(s), nil
}

// ParseParameterKey parses a string into ParameterKey
func ParseParameterKey(s string) (ParameterKey, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("parameter key cannot be empty")
	}
	return ParameterKey(s), nil
}
