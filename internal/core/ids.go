package core

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// IDGenerator produces expense identifiers. Uniqueness is best effort: with
// 24 random bits, collisions inside one event are unlikely but possible and
// are not checked.
type IDGenerator func() string

// RandomID returns 6 lowercase hex characters from crypto/rand.
func RandomID() string {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%06x", time.Now().UnixNano()&0xffffff)
	}
	return hex.EncodeToString(b)
}
