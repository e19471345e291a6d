// Package token implements the two credentials of the passwordless flow:
// the emailed confirmation code and the bearer token it is exchanged for.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/fauzanhakim/ratebase/internal/entity"
)

// confirmation codes stay within the 50-character protocol maximum.
const codeLength = 40

var codeEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// CodeEngine derives single-use confirmation codes from a user's mutable
// state. Nothing is persisted: issuing is a pure function, and any update
// to the user row changes the fingerprint and invalidates older codes.
type CodeEngine struct {
	secret []byte
}

func NewCodeEngine(secret string) *CodeEngine {
	return &CodeEngine{secret: []byte(secret)}
}

// Issue derives the currently valid code for the user. The timestamp
// enters the fingerprint at microsecond precision: Postgres stores no
// finer, so a code derived before the row round-trips must still match
// one derived after.
func (e *CodeEngine) Issue(u *entity.User) string {
	mac := hmac.New(sha256.New, e.secret)
	fmt.Fprintf(mac, "%s|%s|%d", u.ID, u.Email, u.UpdatedAt.UnixMicro())
	code := strings.ToLower(codeEncoding.EncodeToString(mac.Sum(nil)))
	if len(code) > codeLength {
		code = code[:codeLength]
	}
	return code
}

// Verify recomputes the live code and compares in constant time.
func (e *CodeEngine) Verify(u *entity.User, submitted string) bool {
	return hmac.Equal([]byte(e.Issue(u)), []byte(submitted))
}
