package dataset

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/couchcryptid/apartment-price-map/internal/domain"
)

// cityByKey maps folded names ("lodz") to the selector's display names ("Łódź").
var cityByKey = func() map[string]string {
	m := make(map[string]string, len(domain.Cities))
	for _, c := range domain.Cities {
		m[foldCity(c)] = c
	}
	return m
}()

// foldCity lowercases and strips diacritics. ł has no decomposition and is mapped by hand.
func foldCity(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return strings.ReplaceAll(folded, "ł", "l")
}

// normalizeCity returns the display name for a known city in any spelling, or s
// unchanged.
func normalizeCity(s string) string {
	if c, ok := cityByKey[foldCity(s)]; ok {
		return c
	}
	return s
}
