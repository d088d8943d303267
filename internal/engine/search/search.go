package search

import (
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"simpleimport/internal/core/config"
	"simpleimport/internal/shared/observability"
	"simpleimport/internal/shared/util"

	"github.com/gobwas/glob"
)

// Options tune one search.
type Options struct {
	// ViewPath is the project-relative path of the file being edited.
	ViewPath        string
	ExcludeViewFile bool
	CaseInsensitive bool
}

// Pattern builds the candidate matcher for term: the escaped term (with a
// trailing `*` meaning "any suffix") or `term/index`, followed by one of the
// configured extensions at the end of the path. ok is false for a term that
// is empty once `*` is removed.
func Pattern(term string, s config.Settings, caseInsensitive bool) (re *regexp.Regexp, ok bool) {
	literal := strings.ReplaceAll(term, "*", "")
	if literal == "" {
		return nil, false
	}
	quoted := regexp.QuoteMeta(literal)

	wildcard := ""
	if strings.HasSuffix(term, "*") {
		wildcard = ".*"
	}

	exts := make([]string, len(s.Extensions))
	for i, ext := range s.Extensions {
		exts[i] = regexp.QuoteMeta(ext)
	}

	flags := ""
	if caseInsensitive {
		flags = "(?i)"
	}
	expr := flags + "(" + quoted + wildcard + "|" + quoted + "/index)\\.(" + strings.Join(exts, "|") + ")$"
	return regexp.MustCompile(expr), true
}

// Search walks fsys from its root and returns the project-relative paths
// matching term, in walk order: a directory's files before its
// subdirectories, both lexical. Excluded directories are never entered.
func Search(fsys fs.FS, term string, s config.Settings, opts Options) ([]string, error) {
	re, ok := Pattern(term, s, opts.CaseInsensitive)
	if !ok {
		return nil, nil
	}

	start := time.Now()
	w := walker{
		fsys:     fsys,
		excluder: newExcluder(s.ExcludedDirectories),
		visit: func(rel string) bool {
			if opts.ExcludeViewFile && rel == opts.ViewPath {
				return false
			}
			return re.MatchString(rel)
		},
	}
	if err := w.walk(".", ""); err != nil {
		return nil, err
	}

	observability.SearchDuration.Observe(time.Since(start).Seconds())
	observability.SearchCandidates.Observe(float64(len(w.results)))
	slog.Debug("candidate search finished", "term", term, "pattern", re.String(), "candidates", len(w.results))
	return w.results, nil
}

type walker struct {
	fsys     fs.FS
	excluder excluder
	visit    func(rel string) bool
	results  []string
}

func (w *walker) walk(dir, prefix string) error {
	entries, err := fs.ReadDir(w.fsys, dir)
	if err != nil {
		if dir == "." {
			return err
		}
		slog.Debug("skipping unreadable directory", "dir", dir, "error", err)
		return nil
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		rel := prefix + entry.Name()
		if w.visit(rel) {
			w.results = append(w.results, rel)
		}
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		rel := prefix + entry.Name()
		if w.excluder.excluded(rel) {
			observability.DirectoriesPruned.Inc()
			continue
		}
		if err := w.walk(path.Join(dir, entry.Name()), rel+"/"); err != nil {
			return err
		}
	}
	return nil
}

// excluder matches root-relative directory paths against excluded_directories.
// Plain entries match exactly (a trailing slash is optional); entries with
// glob metacharacters are compiled with gobwas/glob using `/` as separator.
type excluder struct {
	literal map[string]bool
	globs   []glob.Glob
}

func newExcluder(entries []string) excluder {
	e := excluder{literal: make(map[string]bool, len(entries))}
	for _, entry := range entries {
		norm := util.NormalizePatternPath(entry)
		if norm == "" {
			continue
		}
		if strings.ContainsAny(norm, "*?[{") {
			g, err := glob.Compile(norm, '/')
			if err == nil {
				e.globs = append(e.globs, g)
				continue
			}
			slog.Warn("invalid excluded directory pattern, matching literally", "pattern", entry, "error", err)
		}
		e.literal[norm] = true
	}
	return e
}

func (e excluder) excluded(rel string) bool {
	if e.literal[rel] {
		return true
	}
	for _, g := range e.globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// ModulePath converts a candidate file into the module reference written in
// the import: recognized extension dropped, trailing `/index` dropped when
// configured, made relative to viewDir and prefixed with `./` when needed.
func ModulePath(candidate, viewDir string, s config.Settings) string {
	p := candidate
	if ext := path.Ext(path.Base(p)); ext != "" && s.HasExtension(ext[1:]) {
		p = strings.TrimSuffix(p, ext)
	}
	if s.RemoveIndexFromPath {
		p = util.TrimIndexSegment(p)
	}
	return util.EnsureRelative(relativeTo(viewDir, p))
}

func relativeTo(dir, target string) string {
	if dir == "" {
		dir = "."
	}
	rel, err := filepath.Rel(filepath.FromSlash(dir), filepath.FromSlash(target))
	if err != nil {
		return target
	}
	return filepath.ToSlash(rel)
}
