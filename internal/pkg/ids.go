package pkg

import (
	"strings"

	"github.com/google/uuid"
)

const matchIDLength = 6

// GenerateMatchID - short shareable match code.
func GenerateMatchID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:matchIDLength]
}

func GenerateConnectionID() string {
	return uuid.NewString()
}
