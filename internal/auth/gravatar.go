package auth

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// gravatarURL derives the avatar for an email: 200px, pg rated, mystery-man fallback.
func gravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "//www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=200&r=pg&d=mm"
}
