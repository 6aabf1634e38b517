package login

import (
	"crypto/rand"
	"encoding/hex"
)

// sessionTokenBytes sizes the raw entropy behind a session id; the hex form
// stored in the cookie is twice as long.
const sessionTokenBytes = 32

func newSessionToken() string {
	buf := make([]byte, sessionTokenBytes)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
