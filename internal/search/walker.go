package search

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-zglob"

	"github.com/petervflocke/quicksearch/internal/models"
)

// candidateKind selects how a worker scans a candidate file.
type candidateKind int

const (
	kindText candidateKind = iota
	kindPDF
)

// candidate is a single file accepted by the walker. Each candidate is
// consumed by exactly one worker.
type candidate struct {
	path string
	kind candidateKind
}

// walker enumerates candidate files beneath the request's roots and streams
// them into a bounded channel so traversal overlaps scanning. Unreadable
// entries are counted and skipped; the walk itself never fails.
type walker struct {
	req    models.SearchRequest
	roots  []string
	token  *CancelToken
	stats  *runStats
	logger Logger
}

// run walks every root in order and closes out when the last root finishes
// or cancellation is observed.
func (w *walker) run(out chan<- candidate) {
	defer close(out)

	exclude := make(map[string]bool, len(w.req.ExcludeDirs))
	for _, name := range w.req.ExcludeDirs {
		exclude[name] = true
	}

	for _, root := range w.roots {
		if w.token.Canceled() {
			return
		}
		w.walkRoot(root, exclude, out)
	}
}

func (w *walker) walkRoot(root string, exclude map[string]bool, out chan<- candidate) {
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if w.token.Canceled() {
			return filepath.SkipAll
		}

		if err != nil {
			w.recordTraversalError(path, err)
			return nil
		}

		isRoot := path == root

		if d.IsDir() {
			if isRoot {
				return nil
			}
			if exclude[d.Name()] {
				return filepath.SkipDir
			}
			if !w.req.IncludeHidden && isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if !isRoot && !w.req.IncludeHidden && isHidden(d.Name()) {
			return nil
		}

		// WalkDir does not descend into symlinked directories, which keeps
		// the traversal cycle-free. Symlink entries that resolve to regular
		// files are still searched.
		switch {
		case d.Type().IsRegular():
		case d.Type()&fs.ModeSymlink != 0:
			info, statErr := os.Stat(path)
			if statErr != nil {
				w.recordTraversalError(path, statErr)
				return nil
			}
			if !info.Mode().IsRegular() {
				return nil
			}
		default:
			return nil
		}

		if len(w.req.Globs) > 0 && !matchesAnyGlob(d.Name(), w.req.Globs) {
			return nil
		}

		kind := kindText
		if w.req.SearchPDF && strings.EqualFold(filepath.Ext(d.Name()), ".pdf") {
			kind = kindPDF
		}

		out <- candidate{path: path, kind: kind}
		return nil
	})
}

func (w *walker) recordTraversalError(path string, err error) {
	w.stats.traversalErrors.Add(1)
	if w.logger != nil {
		w.logger.LogDebug(NewTraversalError(path, err).Error())
	}
}

// isHidden reports whether a base name is a dot-file or dot-directory.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// matchesAnyGlob reports whether the base name matches at least one glob.
// Globs are validated at dispatch, so errors here cannot occur for patterns
// that reached the walker.
func matchesAnyGlob(name string, globs []string) bool {
	for _, g := range globs {
		if ok, err := zglob.Match(g, name); err == nil && ok {
			return true
		}
	}
	return false
}
