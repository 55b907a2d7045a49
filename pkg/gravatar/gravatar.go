// Package gravatar derives deterministic avatar URLs from email addresses.
package gravatar

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

const baseURL = "https://www.gravatar.com/avatar"

// Options control the rendered avatar.
type Options struct {
	Size    int    // pixel size
	Rating  string // maximum rating, e.g. "pg"
	Default string // fallback image, e.g. "mm"
}

// DefaultOptions matches the avatar style used at registration.
var DefaultOptions = Options{Size: 200, Rating: "pg", Default: "mm"}

// URL builds the gravatar URL for an email address. Pure URL construction,
// no network access.
func URL(email string, opts Options) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("%s/%s?s=%d&r=%s&d=%s",
		baseURL, hex.EncodeToString(sum[:]), opts.Size, opts.Rating, opts.Default)
}
