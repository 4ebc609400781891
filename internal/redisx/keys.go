package redisx

import "time"

const (
	// Revoked bearer token: revoked:token:{sha256(token)} -> "revoked"
	KeyRevokedToken = "revoked:token:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLDedup = 48 * time.Hour
)
