// Package slug maps game titles to URL-path-safe identifiers.
package slug

import (
	"strings"
	"unicode"
)

// translit is the Cyrillic-to-Latin map used when building shop URLs.
// It matches the scheme the tracked storefronts use for their own slugs,
// so changing it silently breaks discovery.
var translit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "e", 'ж': "zh", 'з': "z", 'и': "i",
	'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch",
	'ш': "sh", 'щ': "shch", 'ъ': "", 'ы': "y", 'ь': "",
	'э': "e", 'ю': "yu", 'я': "ya",
}

// separators become a single "-" in the slug.
var separators = map[rune]bool{
	'/': true, '\\': true,
	'-': true, '‐': true, '–': true, '—': true,
	'_': true,
}

// Make lower-cases, transliterates Cyrillic, turns whitespace, slashes and
// dashes into "-", drops everything else, collapses repeated "-" and trims
// it from both ends. It is idempotent: Make(Make(s)) == Make(s).
// Punctuation-only input yields "", which callers must treat as
// "cannot probe this title".
func Make(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r) || separators[r]:
			b.WriteByte('-')
		case unicode.Is(unicode.Cyrillic, r):
			b.WriteString(translit[r])
		}
		// Dots, apostrophes, quotes and any other symbol are dropped with
		// no separator: "game.title" -> "gametitle", "game's" -> "games".
	}

	// Collapse runs of "-" and trim.
	parts := strings.FieldsFunc(b.String(), func(r rune) bool { return r == '-' })
	return strings.Join(parts, "-")
}
