package globals

import (
	"context"
	"time"
)

var (
	// JwtSecret is set from configuration at startup.
	JwtSecret []byte

	// Location is the hotel time zone. Day boundaries for every status
	// decision are taken in it.
	Location = time.Local
)

// Context keys
type ContextKey string

const RoleKey ContextKey = "role"
const UserIDKey ContextKey = "userId"

var Ctx = context.Background()

// Now is the hotel clock.
func Now() time.Time {
	return time.Now().In(Location)
}
