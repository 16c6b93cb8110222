package market

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Universe is a named list of instrument codes replayed together.
type Universe struct {
	Name  string
	Codes []string
}

// ReadUniverse parses one code per line. Blank lines and lines starting
// with '#' are ignored; duplicates keep their first position.
func ReadUniverse(name string, r io.Reader) (Universe, error) {
	u := Universe{Name: name}
	seen := make(map[string]bool)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		u.Codes = append(u.Codes, line)
	}
	if err := sc.Err(); err != nil {
		return Universe{}, fmt.Errorf("read universe %s: %w", name, err)
	}
	return u, nil
}

// LoadUniverse reads a universe file; its name is the file's base name
// without extension.
func LoadUniverse(path string) (Universe, error) {
	f, err := os.Open(path)
	if err != nil {
		return Universe{}, err
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ReadUniverse(name, f)
}
