// Package script discovers, sanity-checks, and invokes user-supplied script
// files. Scripts are expr expressions; each one is handed an authenticated
// API client, the remaining command-line arguments, and the resolved
// configuration.
package script

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hubworks-io/hubrun/internal/constants"
)

// ErrScriptNotFound reports a script name that matched no file in any of the
// configured directories.
var ErrScriptNotFound = errors.New("script not found")

// Entry is one discovered script file.
type Entry struct {
	Name string
	Path string
}

// Discover scans the given directories in order and returns every script
// file found, sorted by name. When the same name appears in several
// directories the earliest directory wins. Missing directories are skipped.
func Discover(dirs []string) ([]Entry, error) {
	seen := make(map[string]bool)

	var entries []Entry

	for _, dir := range dirs {
		items, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}

			return nil, fmt.Errorf("scanning script directory %s: %w", dir, err)
		}

		for _, item := range items {
			if item.IsDir() || filepath.Ext(item.Name()) != constants.ScriptExtension {
				continue
			}

			name := strings.TrimSuffix(item.Name(), constants.ScriptExtension)
			if seen[name] {
				continue
			}

			seen[name] = true
			entries = append(entries, Entry{Name: name, Path: filepath.Join(dir, item.Name())})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	return entries, nil
}

// Find locates the script with the given name, honoring directory order.
func Find(dirs []string, name string) (Entry, error) {
	for _, dir := range dirs {
		path := filepath.Join(dir, name+constants.ScriptExtension)

		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}

		return Entry{Name: name, Path: path}, nil
	}

	return Entry{}, fmt.Errorf("%w: %q (searched %s)", ErrScriptNotFound, name, strings.Join(dirs, ", "))
}
