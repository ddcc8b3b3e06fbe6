// Package content sources the pool of candidate text lines that streams
// draw from.
package content

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoContent indicates that no usable text lines were found. It is a
// startup configuration failure: the animation never begins with an
// empty corpus.
var ErrNoContent = errors.New("no usable text lines")

// Library is a non-empty pool of candidate lines with a uniform sampler.
type Library struct {
	lines []string
}

// Load walks dir recursively and collects the non-blank lines of every
// file whose extension appears in extensions (with or without the
// leading dot). Hidden files and directories are skipped.
func Load(dir string, extensions []string) (*Library, error) {
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[strings.TrimPrefix(ext, ".")] = true
	}

	lib := &Library{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if strings.HasPrefix(name, ".") && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if !allowed[strings.TrimPrefix(filepath.Ext(name), ".")] {
			return nil
		}

		n, err := lib.addFile(path)
		if err != nil {
			return err
		}
		log.Printf("content: %s: %d lines", path, n)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("content: scanning %s: %w", dir, err)
	}
	if len(lib.lines) == 0 {
		return nil, fmt.Errorf("content: %w under %s", ErrNoContent, dir)
	}

	log.Printf("content: %d lines total", len(lib.lines))
	return lib, nil
}

// FromLines builds a library from lines directly, keeping only non-blank
// entries. Mostly useful for tests and embedded corpora.
func FromLines(lines []string) (*Library, error) {
	lib := &Library{}
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lib.lines = append(lib.lines, trimmed)
		}
	}
	if len(lib.lines) == 0 {
		return nil, ErrNoContent
	}
	return lib, nil
}

func (l *Library) addFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	count := 0
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			l.lines = append(l.lines, line)
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("reading %s: %w", path, err)
	}
	return count, nil
}

// Sample returns a uniformly chosen line.
func (l *Library) Sample(rng *rand.Rand) string {
	return l.lines[rng.IntN(len(l.lines))]
}

// Len returns the number of lines in the pool.
func (l *Library) Len() int {
	return len(l.lines)
}
