package shortener

import "github.com/google/uuid"

// TokenGenerator produces remove tokens.
type TokenGenerator func() string

// NewRemoveToken returns a random UUIDv4 string.
func NewRemoveToken() string {
	return uuid.NewString()
}
