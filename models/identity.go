package models

import "time"

// Identity is what the access token represents, as far as the client can
// tell without contacting the backend. It is parsed from the token's own
// claims and cleared together with it.
type Identity struct {
	Email     string
	ExpiresAt time.Time
}
