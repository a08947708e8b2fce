// Package slop implements the slop document format: a markdown file made of one
// "# `path`" header plus one fenced block per source file.
//
// Encode turns file contents into a document; Tokenize and Decode turn a
// (possibly hand-edited) document back into FileRecords. Fence markers inside
// file content are hidden behind Sentinel so nested markdown cannot close the
// outer block.
package slop

// BinaryPlaceholder replaces the content of files that are not valid UTF-8 text.
const BinaryPlaceholder = "<binary file content not shown>"

// Source is one file to encode.
type Source struct {
	// Path is relative to the base directory, slash-separated.
	Path string

	// Content is the file text, or BinaryPlaceholder.
	Content string

	// Binary is true when Content is the placeholder.
	Binary bool
}

// FileRecord is one decoded file.
type FileRecord struct {
	// Path is the resolved destination (absolute when the base was absolute).
	Path string

	// Content is the full text to write.
	Content string

	// Kind records how the section was captured.
	Kind SectionKind
}
