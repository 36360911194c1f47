// Package shorturl generates the short-link aliases assigned to bookmarks
// at creation time. Only the alias is stored and returned; resolving it to a
// redirect is handled by a separate service.
package shorturl

import (
	"crypto/rand"
	"math/big"
)

// AliasLength is the number of base62 characters in a generated alias.
const AliasLength = 6

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// NewAlias returns a cryptographically random base62 alias.
func NewAlias() (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, AliasLength)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out), nil
}
