package slop

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBase = filepath.FromSlash("/p")

func TestParse_Basic(t *testing.T) {
	doc := "\n# test_basic.py\n\n```\nprint('Hello, world!')\n```\n"

	records := Parse(doc, testBase, nil)

	require.Len(t, records, 1)
	assert.Equal(t, filepath.Join(testBase, "test_basic.py"), records[0].Path)
	assert.Equal(t, "print('Hello, world!')\n", records[0].Content)
	assert.Equal(t, SectionPlain, records[0].Kind)
}

func TestParse_MultipleFiles(t *testing.T) {
	doc := "# `test_file1.py`\n\n```\nprint('File 1 contents')\n```\n\n" +
		"# `test_file2.py`\n\n```\nprint('File 2 contents')\n```\n"

	records := Parse(doc, testBase, nil)

	require.Len(t, records, 2)
	assert.Equal(t, filepath.Join(testBase, "test_file1.py"), records[0].Path)
	assert.Equal(t, "print('File 1 contents')\n", records[0].Content)
	assert.Equal(t, filepath.Join(testBase, "test_file2.py"), records[1].Path)
	assert.Equal(t, "print('File 2 contents')\n", records[1].Content)
}

func TestParse_NestedPaths(t *testing.T) {
	doc := "# nested/nested_file.py\n\n```\nprint('Nested file')\n```\n\n" +
		"# nested/subdir/subdir_file.py\n\n```\nprint('Subdir file')\n```\n"

	records := Parse(doc, testBase, nil)

	require.Len(t, records, 2)
	assert.Equal(t, filepath.Join(testBase, "nested", "nested_file.py"), records[0].Path)
	assert.Equal(t, filepath.Join(testBase, "nested", "subdir", "subdir_file.py"), records[1].Path)
}

func TestParse_EmptyFence(t *testing.T) {
	records := Parse("# `empty.py`\n\n```\n```\n", testBase, nil)

	require.Len(t, records, 1)
	assert.Equal(t, "", records[0].Content)

	records = Parse("# `blank.py`\n\n```\n\n```\n", testBase, nil)
	require.Len(t, records, 1)
	assert.Equal(t, "\n", records[0].Content)
}

func TestParse_CommentaryIgnored(t *testing.T) {
	doc := `
# file1.py
Some commentary before the code block.

` + "```" + `
print('Hello, world!')
` + "```" + `
Some commentary after the code block.

# file2.py
More commentary before the code block.

` + "```" + `
print('Goodbye, world!')
` + "```" + `
Even more commentary after the code block.
`

	records := Parse(doc, testBase, nil)

	require.Len(t, records, 2)
	assert.Equal(t, "print('Hello, world!')\n", records[0].Content)
	assert.Equal(t, "print('Goodbye, world!')\n", records[1].Content)
}

func TestParse_ProseBeforeFirstHeaderIgnored(t *testing.T) {
	doc := "Here is the updated project:\n\n```\nstray\n```\n\n# `a.py`\n\n```\nx = 1\n```\n"

	records := Parse(doc, testBase, nil)

	require.Len(t, records, 1)
	assert.Equal(t, filepath.Join(testBase, "a.py"), records[0].Path)
	assert.Equal(t, "x = 1\n", records[0].Content)
}

func TestParse_NestedMarkdown(t *testing.T) {
	doc := "\n# `nested_markdown.md`\n\n```\n# Example Markdown Content\n\n" +
		"This is a Markdown file with nested code blocks.\n\n" +
		Sentinel + "python\n# This is a nested code block\nprint(\"Hello, nested world!\")\n" +
		Sentinel + "\n```\n"

	records := Parse(doc, testBase, nil)

	require.Len(t, records, 1)
	assert.Equal(t, filepath.Join(testBase, "nested_markdown.md"), records[0].Path)
	assert.Equal(t, SectionMarkup, records[0].Kind)
	assert.NotContains(t, records[0].Content, "<!--SLOPIFY_CODE_BLOCK")
	assert.Contains(t, records[0].Content, "```python\n# This is a nested code block\n")
	assert.True(t, strings.HasPrefix(records[0].Content, "# Example Markdown Content\n"))
}

func TestParse_UnfencedMarkdownSection(t *testing.T) {
	doc := "# `notes.md`\n\n## Intro\n\nbla bla\n\n```go\nx := 1\n```\n\n# `main.go`\n\n```go\npackage main\n```\n"

	records := Parse(doc, testBase, nil)

	require.Len(t, records, 2)
	assert.Equal(t, SectionMarkup, records[0].Kind)
	assert.Equal(t, "##\nIntro\n\nbla bla\n\nx := 1\n", records[0].Content)
	assert.Equal(t, "package main\n", records[1].Content)
}

func TestParse_MultipleFencesJoined(t *testing.T) {
	doc := "# `a.py`\n\n```\none\n```\n\ntext\n\n```\ntwo\n```\n"

	records := Parse(doc, testBase, nil)

	require.Len(t, records, 1)
	assert.Equal(t, "one\n\ntwo\n", records[0].Content)
}

func TestParse_DuplicateHeaders(t *testing.T) {
	doc := "# `a.py`\n\n```\nfirst\n```\n\n# `a.py`\n\n```\nsecond\n```\n"

	records := Parse(doc, testBase, nil)

	require.Len(t, records, 2)
	assert.Equal(t, records[0].Path, records[1].Path)
	assert.Equal(t, "second\n", records[1].Content)
}

func TestParse_EmptyHeaderSuppressed(t *testing.T) {
	doc := "#\n\n```\nlost\n```\n\n# ``\n\n```\nalso lost\n```\n\n# `kept.py`\n\n```\nkept\n```\n"

	dec := NewDecoder(testBase, nil)
	records := dec.Decode(Tokenize([]byte(doc)))

	require.Len(t, records, 1)
	assert.Equal(t, filepath.Join(testBase, "kept.py"), records[0].Path)
	assert.Equal(t, 2, dec.Suppressed())
}

func TestParse_NoHeaders(t *testing.T) {
	assert.Empty(t, Parse("", testBase, nil))
	assert.Empty(t, Parse("just prose\n\n```\ncode\n```\n", testBase, nil))
}

func TestParse_SubheadingsInPlainSectionIgnored(t *testing.T) {
	doc := "# `a.py`\n\n## explanation\n\nsome words\n\n```\ncode\n```\n"

	records := Parse(doc, testBase, nil)

	require.Len(t, records, 1)
	assert.Equal(t, "code\n", records[0].Content)
}

func TestParse_AbsoluteHeaderPath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "abs.py")
	doc := "# `" + filepath.ToSlash(abs) + "`\n\n```\nx\n```\n"

	records := Parse(doc, testBase, nil)

	require.Len(t, records, 1)
	assert.Equal(t, abs, records[0].Path)
}

func TestDecode_HandBuiltTokens(t *testing.T) {
	tokens := []Token{
		{Kind: TokenHeadingOpen, Level: 1},
		{Kind: TokenInline, Text: "`doc.md`"},
		{Kind: TokenHeadingClose},
		{Kind: TokenHeadingOpen, Level: 2},
		{Kind: TokenInline, Text: "Usage"},
		{Kind: TokenHeadingClose},
		{Kind: TokenFence, Text: Sentinel + "sh\nrun\n" + Sentinel + "\n"},
		{Kind: TokenHeadingOpen, Level: 1},
	}

	dec := NewDecoder("", nil)
	records := dec.Decode(tokens)

	require.Len(t, records, 1)
	assert.Equal(t, "doc.md", records[0].Path)
	assert.Equal(t, "##\nUsage\n\n```sh\nrun\n```\n", records[0].Content)
	assert.Equal(t, 1, dec.Suppressed(), "trailing header without text is suppressed")
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, filepath.Join(testBase, "a", "b.go"), ResolvePath(testBase, "a/b.go"))
	assert.Equal(t, filepath.FromSlash("a/b.go"), ResolvePath("", "a/b.go"))
	assert.Equal(t, filepath.Join(filepath.Dir(testBase), "x"), ResolvePath(testBase, "../x"))
}
