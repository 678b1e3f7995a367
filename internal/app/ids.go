package app

import "github.com/google/uuid"

// newMatchID returns a random UUIDv4 string used as the public match key.
func newMatchID() string { return uuid.NewString() }
