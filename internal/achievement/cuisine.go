package achievement

import (
	"fmt"
	"io/fs"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Cuisine is one entry of the keyword table
type Cuisine struct {
	Key      string   `toml:"key" json:"key"`
	Name     string   `toml:"name" json:"name"`
	Keywords []string `toml:"keywords" json:"keywords"`
}

type cuisineFile struct {
	Cuisines []Cuisine `toml:"cuisine"`
}

// cuisineMatcher detects a cuisine from free text. Entries are tried in table order.
type cuisineMatcher struct {
	cuisines []Cuisine
	// normalized keywords per cuisine, padded with spaces for whole-word matching
	keywords [][]string
}

func loadCuisines(fsys fs.FS, path string) ([]Cuisine, error) {
	var file cuisineFile
	md, err := toml.DecodeFS(fsys, path, &file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown keys %v", path, undecoded)
	}

	seen := make(map[string]bool, len(file.Cuisines))
	for i, c := range file.Cuisines {
		if c.Key == "" {
			return nil, fmt.Errorf("%s: cuisine #%d has no key", path, i+1)
		}
		if seen[c.Key] {
			return nil, fmt.Errorf("%s: duplicate cuisine %q", path, c.Key)
		}
		if len(c.Keywords) == 0 {
			return nil, fmt.Errorf("%s: cuisine %q has no keywords", path, c.Key)
		}
		seen[c.Key] = true
	}
	return file.Cuisines, nil
}

func newCuisineMatcher(cuisines []Cuisine) *cuisineMatcher {
	m := &cuisineMatcher{
		cuisines: cuisines,
		keywords: make([][]string, len(cuisines)),
	}
	for i, c := range cuisines {
		for _, kw := range c.Keywords {
			if n := normalizeText(kw); n != "" {
				m.keywords[i] = append(m.keywords[i], " "+n+" ")
			}
		}
	}
	return m
}

// Detect returns the key of the first cuisine with a keyword in any of the texts, or "".
func (m *cuisineMatcher) Detect(texts ...string) string {
	haystack := " " + normalizeText(strings.Join(texts, " ")) + " "
	if strings.TrimSpace(haystack) == "" {
		return ""
	}
	for i, kws := range m.keywords {
		for _, kw := range kws {
			if strings.Contains(haystack, kw) {
				return m.cuisines[i].Key
			}
		}
	}
	return ""
}

// normalizeText strips accents, lowercases and collapses every run of
// non-alphanumerics into a single space. "Phở Hòa, Café" becomes "pho hoa cafe".
func normalizeText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}

	var b strings.Builder
	b.Grow(len(stripped))
	space := true
	for _, r := range strings.ToLower(stripped) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}
