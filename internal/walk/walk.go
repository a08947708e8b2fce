// Package walk turns export arguments into the list of files to encode.
//
// Directories are expanded (direct children, or the whole tree when recursive) and
// every candidate is filtered through gitignore-style rules read from the base
// directory's .gitignore, plus configured extras and a deny list.
package walk

import (
	"bufio"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	slerrors "github.com/SlapDrone/slopify/internal/errors"
	"github.com/SlapDrone/slopify/internal/logging"
)

// DefaultIgnore keeps version control metadata out of every document.
var DefaultIgnore = []string{"/.git/", "*/.git/", "**/.git/"}

// Matcher decides whether a path is excluded.
type Matcher struct {
	ignore gitignore.Matcher
	deny   gitignore.Matcher
}

// NewMatcher builds a matcher from DefaultIgnore, the base directory's .gitignore,
// and the extra ignore patterns, in that order (later patterns win, so a .gitignore
// negation can re-include a file). Deny patterns cannot be negated.
func NewMatcher(base string, ignore, deny []string) (*Matcher, error) {
	lines := append([]string{}, DefaultIgnore...)
	if base != "" {
		fromFile, err := readIgnoreFile(filepath.Join(base, ".gitignore"))
		if err != nil {
			return nil, err
		}
		lines = append(lines, fromFile...)
	}
	lines = append(lines, ignore...)

	return &Matcher{
		ignore: gitignore.NewMatcher(parsePatterns(lines)),
		deny:   gitignore.NewMatcher(parsePatterns(deny)),
	}, nil
}

// Match reports whether rel (slash-separated, relative to the base) is excluded.
func (m *Matcher) Match(rel string, isDir bool) bool {
	if m == nil {
		return false
	}
	parts := splitPath(rel)
	if len(parts) == 0 {
		return false
	}
	return m.deny.Match(parts, isDir) || m.ignore.Match(parts, isDir)
}

func parsePatterns(lines []string) []gitignore.Pattern {
	patterns := make([]gitignore.Pattern, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return patterns
}

// readIgnoreFile returns the lines of a .gitignore, or nil when it doesn't exist.
func readIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, slerrors.NewReadFailed(path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, slerrors.NewReadFailed(path, err)
	}
	return lines, nil
}

func splitPath(rel string) []string {
	rel = strings.Trim(filepath.ToSlash(rel), "/")
	if rel == "" || rel == "." {
		return nil
	}
	return strings.Split(rel, "/")
}

// Options controls Collect.
type Options struct {
	// Base is the directory ignore rules are evaluated against. Empty means the working directory.
	Base string

	// Recursive expands directories to their whole tree instead of direct children.
	Recursive bool

	// Matcher filters candidates. Nil includes everything.
	Matcher *Matcher

	// Logger receives per-file debug events. Nil discards.
	Logger *slog.Logger
}

// Collect resolves paths into a sorted, deduplicated list of absolute file locations.
// A path that doesn't exist fails with FILE_NOT_FOUND before anything is read.
func Collect(ctx context.Context, paths []string, opts Options) ([]string, error) {
	logger := logging.OrDiscard(opts.Logger)

	base := opts.Base
	if base == "" {
		base = "."
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return nil, slerrors.NewInternal(err)
	}

	c := &collector{
		ctx:     ctx,
		base:    absBase,
		matcher: opts.Matcher,
		logger:  logger,
		seen:    make(map[string]bool),
	}

	// Check every argument first so a typo fails fast.
	abs := make([]string, 0, len(paths))
	infos := make([]fs.FileInfo, 0, len(paths))
	for _, p := range paths {
		ap, err := filepath.Abs(p)
		if err != nil {
			return nil, slerrors.NewInternal(err)
		}
		info, err := os.Stat(ap)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, slerrors.NewFileNotFound(p)
			}
			return nil, slerrors.NewReadFailed(p, err)
		}
		abs = append(abs, ap)
		infos = append(infos, info)
	}

	for i, ap := range abs {
		if err := ctx.Err(); err != nil {
			return nil, slerrors.NewCancelled("collect")
		}
		switch {
		case infos[i].IsDir() && opts.Recursive:
			err = c.walkTree(ap)
		case infos[i].IsDir():
			err = c.listDir(ap)
		default:
			c.add(ap)
		}
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(c.files)
	return c.files, nil
}

type collector struct {
	ctx     context.Context
	base    string
	matcher *Matcher
	logger  *slog.Logger
	seen    map[string]bool
	files   []string
}

// excluded evaluates the matcher against path relative to the base.
// Paths outside the base are matched by their name alone.
func (c *collector) excluded(path string, isDir bool) bool {
	rel, err := filepath.Rel(c.base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(path)
	}
	return c.matcher.Match(rel, isDir)
}

func (c *collector) add(path string) {
	if c.seen[path] {
		return
	}
	if c.excluded(path, false) {
		c.logger.Debug("ignored", "path", path)
		return
	}
	c.seen[path] = true
	c.files = append(c.files, path)
}

// listDir adds the regular files directly inside dir.
func (c *collector) listDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return slerrors.NewReadFailed(dir, err)
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if isRegular(path, entry) {
			c.add(path)
		}
	}
	return nil
}

// walkTree adds every regular file below root, pruning ignored directories.
func (c *collector) walkTree(root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return slerrors.NewReadFailed(path, err)
		}
		if ctxErr := c.ctx.Err(); ctxErr != nil {
			return slerrors.NewCancelled("collect")
		}
		if entry.IsDir() {
			if path != root && (entry.Name() == ".git" || c.excluded(path, true)) {
				c.logger.Debug("ignored directory", "path", path)
				return filepath.SkipDir
			}
			return nil
		}
		if isRegular(path, entry) {
			c.add(path)
		}
		return nil
	})
}

// isRegular reports whether entry is a regular file, following symlinks.
func isRegular(path string, entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
