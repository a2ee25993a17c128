package upload

import (
	"fmt"
	"regexp"
	"time"

	"github.com/jaevor/go-nanoid"
)

const (
	keyPrefix   = "uploads/"
	tokenLength = 16
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// KeyGenerator mints object keys of the form
// uploads/{epochMillis}_{randomHex}_{sanitizedName}. The timestamp and
// random token make keys unique even for identical file names uploaded
// in the same millisecond; keys are never reused.
type KeyGenerator struct {
	token func() string
}

// NewKeyGenerator creates a key generator backed by a hex nanoid.
func NewKeyGenerator() (*KeyGenerator, error) {
	token, err := nanoid.CustomASCII("0123456789abcdef", tokenLength)
	if err != nil {
		return nil, fmt.Errorf("create token generator: %w", err)
	}

	return &KeyGenerator{token: token}, nil
}

// NewKey mints a fresh object key for the given original file name.
func (g *KeyGenerator) NewKey(fileName string) string {
	return fmt.Sprintf("%s%d_%s_%s", keyPrefix, time.Now().UnixMilli(), g.token(), SanitizeFileName(fileName))
}

// SanitizeFileName reduces a client-supplied file name to [A-Za-z0-9._-].
func SanitizeFileName(name string) string {
	sanitized := unsafeKeyChars.ReplaceAllString(name, "_")
	if sanitized == "" {
		return "file"
	}

	return sanitized
}
