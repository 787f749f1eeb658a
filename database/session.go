package database

import "github.com/google/uuid"

// NewProfileID returns a random id naming one browser's scope.
func NewProfileID() string {
	return uuid.NewString()
}

// ValidProfileID reports whether id could have come from NewProfileID.
func ValidProfileID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
