package migration

import (
	"path/filepath"
	"strings"

	"github.com/agentx-labs/docmigrate/internal/storage"
)

// legacyDataDir is the directory under the document root that held one
// sandbox per application id.
const legacyDataDir = "ExperienceData"

const upperhex = "0123456789ABCDEF"

// LegacyDocumentDirectory returns the storage path of the legacy sandbox for
// env.AppID. It reports false off the supported platform or when the
// document directory or the app id is unknown.
//
// The id is percent-encoded twice: storage decodes every path once, so the
// directory on disk carries the single-encoded id and reserved characters
// such as '/' never turn into separators.
func LegacyDocumentDirectory(env Environment) (string, bool) {
	if !env.Platform.IsSupported() || env.DocumentDir == "" || env.AppID == "" {
		return "", false
	}
	id := EncodeComponent(EncodeComponent(env.AppID))
	return filepath.Join(storage.Escape(env.DocumentDir), legacyDataDir, id), true
}

// NewDocumentDirectory returns the storage path of the current document root.
func NewDocumentDirectory(env Environment) (string, bool) {
	if env.DocumentDir == "" {
		return "", false
	}
	return storage.Escape(env.DocumentDir), true
}

// EncodeComponent percent-encodes s as a single URI component. Only
// A-Z a-z 0-9 and - _ . ! ~ * ' ( ) are left as they are.
func EncodeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreservedComponentByte(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0x0F])
	}
	return b.String()
}

func isUnreservedComponentByte(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
