package ledger

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// NewID returns a 24-character lowercase hex id: a 4-byte unix-seconds
// prefix followed by 8 random bytes. The prefix keeps ids roughly ordered by
// creation time, which cursor pagination relies on, and the width matches
// the public verify contract (24-hex ids, 64-hex digests).
func NewID() string {
	var raw [12]byte
	binary.BigEndian.PutUint32(raw[:4], uint32(time.Now().Unix()))
	if _, err := rand.Read(raw[4:]); err != nil {
		// crypto/rand never fails on supported platforms.
		panic(err)
	}
	return hex.EncodeToString(raw[:])
}
