package ledger

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// claimCodeLen is the number of hex characters shown on the win banner.
const claimCodeLen = 6

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ClaimCode derives the desk code for a won session: HMAC(salt, sessionID),
// first claimCodeLen hex characters, uppercase. The same session always gets
// the same code, so re-reporting a win is harmless.
func ClaimCode(salt, sessionID string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(sessionID))
	return strings.ToUpper(hex.EncodeToString(h.Sum(nil))[:claimCodeLen])
}

// NormalizeCode uppercases and trims a code typed by staff.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
