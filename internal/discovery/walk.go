package discovery

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// hiddenPrefix marks entries that are never visited.
const hiddenPrefix = "."

// Entry is a file or directory met during a walk.
type Entry struct {
	// Path is the OS path of the entry.
	Path string
	// Rel is the slash separated path relative to the walk root.
	Rel   string
	Name  string
	IsDir bool
}

// Ext returns the lower-cased extension of the entry name, including the dot.
func (e Entry) Ext() string {
	return strings.ToLower(filepath.Ext(e.Name))
}

// Visitor receives walk callbacks. S is state threaded from a directory to its children,
// such as the version that applies to a subtree.
type Visitor[S any] struct {
	// Enter derives the state for dir's children from the parent state. Optional.
	Enter func(parent S, dir Entry) S
	// File is called for every non-hidden regular file.
	File func(state S, file Entry)
}

// IsHidden reports whether name is skipped by the walker.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, hiddenPrefix)
}

// Walk visits root depth-first in lexical order. Hidden entries are skipped at any depth.
// A missing root is returned as an error wrapping ErrMissingRoot; unreadable subdirectories
// are recorded in report and the walk continues with their siblings.
func Walk[S any](root string, initial S, v Visitor[S], report *Report) error {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", root, ErrMissingRoot)
		}
		return fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}

	w := walker[S]{root: root, visitor: v, report: report}
	w.scan(root, "", initial)
	return nil
}

type walker[S any] struct {
	root    string
	visitor Visitor[S]
	report  *Report
}

func (w *walker[S]) scan(dir, rel string, state S) {
	start := time.Now()
	slog.Debug("Scanning directory", "path", dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.report.Add(DirectoryError(dir, err))
		return
	}

	for _, de := range entries {
		name := de.Name()
		if IsHidden(name) {
			slog.Debug("Skipping hidden entry", "name", name, "dir", dir)
			continue
		}

		entry := Entry{
			Path:  filepath.Join(dir, name),
			Rel:   joinRel(rel, name),
			Name:  name,
			IsDir: de.IsDir(),
		}

		switch {
		case de.IsDir():
			child := state
			if w.visitor.Enter != nil {
				child = w.visitor.Enter(state, entry)
			}
			w.scan(entry.Path, entry.Rel, child)
		case de.Type().IsRegular():
			w.visitor.File(state, entry)
		}
	}

	slog.Debug("Directory scan completed", "path", dir, "duration", time.Since(start))
}

func joinRel(rel, name string) string {
	if rel == "" {
		return name
	}
	return rel + "/" + name
}
