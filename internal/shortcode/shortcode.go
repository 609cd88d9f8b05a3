// Package shortcode generates and validates the short codes that key dynamic
// QR code redirects, and builds or parses the redirect links that carry them.
package shortcode

import (
	"crypto/rand"
	"math/big"
	"net/url"
	"regexp"
	"strings"
)

const (
	// Length is the number of characters in a short code.
	Length = 6

	// Alphabet holds the 36 symbols a short code is drawn from.
	Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

	// RoutePrefix is the path segment that precedes a short code in a redirect link.
	RoutePrefix = "r"
)

var validCode = regexp.MustCompile(`^[a-z0-9]{6}$`)

var alphabetSize = big.NewInt(int64(len(Alphabet)))

// Generate returns a random short code. Every character is sampled
// independently and uniformly from Alphabet.
func Generate() string {
	code := make([]byte, Length)

	for i := range code {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			panic("shortcode: entropy source failed: " + err.Error())
		}
		code[i] = Alphabet[n.Int64()]
	}

	return string(code)
}

// IsValid reports whether code has the short code format.
func IsValid(code string) bool {
	return validCode.MatchString(code)
}

// BuildRedirectURL returns the shareable redirect link for code under origin.
func BuildRedirectURL(origin, code string) string {
	return strings.TrimRight(origin, "/") + "/" + RoutePrefix + "/" + code
}

// ExtractCode returns the short code carried by a redirect path such as
// "/r/abc123" or by a full redirect link. It returns an empty string when the
// path has no code segment.
func ExtractCode(raw string) string {
	path := raw
	if u, err := url.Parse(raw); err == nil {
		path = u.Path
	}

	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) < 2 || segments[len(segments)-2] != RoutePrefix {
		return ""
	}

	return segments[len(segments)-1]
}
