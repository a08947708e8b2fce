package slop

import (
	"io"
	"sort"
	"strings"
)

// Encode renders sources as a slop document, sorted by path.
// Every file's content is escaped, and exactly one newline precedes each closing
// fence: it is added only when the content does not already end in one.
func Encode(sources []Source, langs *Languages) string {
	var b strings.Builder
	// strings.Builder never returns a write error.
	_ = WriteDocument(&b, sources, langs)
	return b.String()
}

// WriteDocument streams the document for sources to w.
func WriteDocument(w io.Writer, sources []Source, langs *Languages) error {
	sorted := make([]Source, len(sources))
	copy(sorted, sources)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})

	for _, src := range sorted {
		if _, err := io.WriteString(w, renderSection(src, langs)); err != nil {
			return err
		}
	}
	return nil
}

// renderSection formats one header-plus-fence section.
func renderSection(src Source, langs *Languages) string {
	content := Escape(src.Content)
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	var b strings.Builder
	b.Grow(len(src.Path) + len(content) + 32)
	b.WriteString("# `")
	b.WriteString(src.Path)
	b.WriteString("`\n\n")
	b.WriteString(FenceMarker)
	b.WriteString(langs.Tag(src.Path))
	b.WriteString("\n")
	b.WriteString(content)
	b.WriteString(FenceMarker)
	b.WriteString("\n\n")
	return b.String()
}
