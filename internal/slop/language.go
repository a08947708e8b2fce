package slop

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// SectionKind selects how a section's content is captured on decode.
type SectionKind int

const (
	// SectionPlain takes content from fenced blocks only.
	SectionPlain SectionKind = iota
	// SectionMarkup captures all markdown structure up to the next file header.
	SectionMarkup
)

// String implements fmt.Stringer.
func (k SectionKind) String() string {
	if k == SectionMarkup {
		return "markup"
	}
	return "plain"
}

// extensionTags maps file extensions (without the dot) to fence language tags.
var extensionTags = map[string]string{
	"py":    "python",
	"js":    "javascript",
	"sh":    "bash",
	"md":    "markdown",
	"html":  "html",
	"css":   "css",
	"c":     "c",
	"cpp":   "cpp",
	"h":     "c",
	"hpp":   "cpp",
	"java":  "java",
	"go":    "go",
	"swift": "swift",
	"scala": "scala",
	"rb":    "ruby",
	"php":   "php",
	"cs":    "csharp",
	"fs":    "fsharp",
	"ts":    "typescript",
	"kt":    "kotlin",
	"pl":    "perl",
}

// DefaultMarkupExtensions lists extensions treated as the document's own language.
var DefaultMarkupExtensions = []string{".md"}

// Languages resolves fence tags and section kinds from file paths.
// A nil *Languages behaves like DefaultLanguages().
type Languages struct {
	overrides map[string]string
	markup    map[string]bool
	detect    bool
}

// NewLanguages builds a resolver. overrides keys may be given with or without a
// leading dot; markupExts empty means DefaultMarkupExtensions. With detect set,
// extensions missing from the table fall back to chroma's lexer registry.
func NewLanguages(overrides map[string]string, markupExts []string, detect bool) *Languages {
	l := &Languages{
		overrides: make(map[string]string, len(overrides)),
		markup:    make(map[string]bool),
		detect:    detect,
	}
	for ext, tag := range overrides {
		l.overrides[normalizeExt(ext)] = tag
	}
	if len(markupExts) == 0 {
		markupExts = DefaultMarkupExtensions
	}
	for _, ext := range markupExts {
		if ext = normalizeExt(ext); ext != "" {
			l.markup[ext] = true
		}
	}
	return l
}

// DefaultLanguages returns the built-in table with markdown as the markup language.
func DefaultLanguages() *Languages {
	return NewLanguages(nil, nil, false)
}

// Tag returns the fence language tag for path, or "" when unknown.
func (l *Languages) Tag(path string) string {
	if l == nil {
		l = DefaultLanguages()
	}
	ext := normalizeExt(filepath.Ext(path))
	if tag, ok := l.overrides[ext]; ok {
		return tag
	}
	if tag, ok := extensionTags[ext]; ok {
		return tag
	}
	if l.detect {
		return detectTag(path)
	}
	return ""
}

// Kind reports whether path is captured as a plain file or as markup.
func (l *Languages) Kind(path string) SectionKind {
	if l == nil {
		l = DefaultLanguages()
	}
	if l.markup[normalizeExt(filepath.Ext(path))] {
		return SectionMarkup
	}
	return SectionPlain
}

// IsMarkup reports whether path is in the document's own markup language.
func (l *Languages) IsMarkup(path string) bool {
	return l.Kind(path) == SectionMarkup
}

// detectTag asks chroma for a lexer matching the file name.
func detectTag(path string) string {
	lexer := lexers.Match(filepath.Base(path))
	if lexer == nil {
		return ""
	}
	cfg := lexer.Config()
	if len(cfg.Aliases) > 0 {
		return cfg.Aliases[0]
	}
	return strings.ToLower(cfg.Name)
}

// normalizeExt lowercases ext and strips a leading dot.
func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
