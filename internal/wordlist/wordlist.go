// Package wordlist loads word lists from files and embedded defaults.
package wordlist

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

//go:embed data/*.txt
var embedded embed.FS

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return ParseWords(file)
}

// ParseWords reads one word per line, skipping blanks and # comments.
func ParseWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}

// Embedded returns the built-in word list for a language.
func Embedded(lang string) ([]string, error) {
	file, err := embedded.Open("data/" + strings.ToLower(lang) + ".txt")
	if err != nil {
		return nil, fmt.Errorf("no built-in word list for %q", lang)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for embedded file.
			_ = cerr
		}
	}()
	return ParseWords(file)
}

// EmbeddedLangs lists the languages with a built-in word list.
func EmbeddedLangs() []string {
	entries, err := embedded.ReadDir("data")
	if err != nil {
		return nil
	}
	langs := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".txt") {
			langs = append(langs, strings.TrimSuffix(name, ".txt"))
		}
	}
	sort.Strings(langs)
	return langs
}

// Resolve loads the user word list at path when present, otherwise the
// built-in list for lang. Words rejected by the language filter are dropped.
func Resolve(lang, path string) ([]string, string, error) {
	words, err := LoadWords(path)
	source := path
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, "", fmt.Errorf("failed to load word list %s: %w", path, err)
		}
		words, err = Embedded(lang)
		if err != nil {
			return nil, "", err
		}
		source = "built-in:" + lang
	}
	filter := FilterForLang(lang)
	kept := words[:0]
	for _, w := range words {
		w = strings.ToLower(w)
		if filter(w) {
			kept = append(kept, w)
		}
	}
	if len(kept) == 0 {
		return nil, "", fmt.Errorf("word list for %q has no usable words", lang)
	}
	return kept, source, nil
}
