package refreshtokens

import "time"

// RefreshToken is the server-side record of an issued refresh token, keyed
// by its jti claim.
type RefreshToken struct {
	ID        string
	UserID    string
	Expires   time.Time
	CreatedAt time.Time
}
