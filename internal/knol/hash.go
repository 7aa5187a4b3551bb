// Package knol identifies card content independently of where it is stored.
package knol

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/Nati35/NEMO/internal/domain"
)

// Normalize concatenates the card's content after cleaning each part.
// Each field is trimmed, lowercased and has its line endings unified.
// Media references keep their case since paths are case sensitive.
func Normalize(card domain.Card) string {
	clean := func(part string) string {
		p := strings.ReplaceAll(part, "\r\n", "\n")
		return strings.TrimSpace(p)
	}

	refs := make([]string, 0, len(card.ImageRefs))
	for _, ref := range card.ImageRefs {
		refs = append(refs, clean(ref))
	}

	// Fields are newline separated so "ab"+"c" and "a"+"bc" differ.
	return strings.Join([]string{
		strings.ToLower(clean(card.Front)),
		strings.ToLower(clean(card.Back)),
		strings.Join(refs, ","),
		clean(card.AudioRef),
	}, "\n")
}

// Hash returns the hex SHA-256 of the normalized card content.
func Hash(card domain.Card) string {
	sum := sha256.Sum256([]byte(Normalize(card)))
	return fmt.Sprintf("%x", sum)
}
