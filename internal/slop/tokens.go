package slop

import (
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// TokenKind identifies a structural unit of a parsed document.
type TokenKind int

const (
	TokenHeadingOpen   TokenKind = iota // Level set; heading text follows as TokenInline
	TokenHeadingClose                   // ends a heading, Text empty
	TokenInline                         // literal inline text of a heading or paragraph
	TokenBlockClose                     // ends a paragraph, Text empty
	TokenFence                          // fenced code block: raw content + Info
	TokenCodeBlock                      // indented code block: raw content
	TokenHTMLBlock                      // raw HTML block
	TokenThematicBreak                  // horizontal rule
)

var tokenKindNames = map[TokenKind]string{
	TokenHeadingOpen:   "heading_open",
	TokenHeadingClose:  "heading_close",
	TokenInline:        "inline",
	TokenBlockClose:    "block_close",
	TokenFence:         "fence",
	TokenCodeBlock:     "code_block",
	TokenHTMLBlock:     "html_block",
	TokenThematicBreak: "hr",
}

// String implements fmt.Stringer.
func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Token is one structural unit of a markdown document, in document order.
type Token struct {
	Kind  TokenKind
	Level int    // heading level, TokenHeadingOpen only
	Text  string // literal source text (inline text or raw block content)
	Info  string // fence info string, TokenFence only
}

// Language returns the first word of a fence's info string.
func (t Token) Language() string {
	fields := strings.Fields(t.Info)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// The goldmark configuration never changes; parsing state is per call.
var (
	markdownInstance goldmark.Markdown
	markdownOnce     sync.Once
)

func markdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New()
	})
	return markdownInstance
}

// Tokenize parses source as CommonMark and flattens the block structure into tokens.
// Container blocks (lists, blockquotes) emit nothing themselves; their leaf blocks
// are emitted in order.
func Tokenize(source []byte) []Token {
	document := markdown().Parser().Parse(text.NewReader(source))
	tz := &tokenizer{source: source}
	_ = ast.Walk(document, tz.walk)
	return tz.tokens
}

type tokenizer struct {
	source []byte
	tokens []Token
}

func (tz *tokenizer) emit(tok Token) {
	tz.tokens = append(tz.tokens, tok)
}

func (tz *tokenizer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {
	case ast.KindHeading:
		if entering {
			heading := node.(*ast.Heading)
			tz.emit(Token{Kind: TokenHeadingOpen, Level: heading.Level})
			tz.emit(Token{Kind: TokenInline, Text: tz.inlineText(node)})
			return ast.WalkSkipChildren, nil
		}
		tz.emit(Token{Kind: TokenHeadingClose})

	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			tz.emit(Token{Kind: TokenInline, Text: tz.inlineText(node)})
			return ast.WalkSkipChildren, nil
		}
		tz.emit(Token{Kind: TokenBlockClose})

	case ast.KindFencedCodeBlock:
		if entering {
			fence := node.(*ast.FencedCodeBlock)
			info := ""
			if fence.Info != nil {
				info = string(fence.Info.Segment.Value(tz.source))
			}
			tz.emit(Token{Kind: TokenFence, Text: tz.rawText(node), Info: info})
			return ast.WalkSkipChildren, nil
		}

	case ast.KindCodeBlock:
		if entering {
			tz.emit(Token{Kind: TokenCodeBlock, Text: tz.rawText(node)})
			return ast.WalkSkipChildren, nil
		}

	case ast.KindHTMLBlock:
		if entering {
			block := node.(*ast.HTMLBlock)
			raw := tz.rawText(node)
			if block.HasClosure() {
				raw += string(block.ClosureLine.Value(tz.source))
			}
			tz.emit(Token{Kind: TokenHTMLBlock, Text: raw})
			return ast.WalkSkipChildren, nil
		}

	case ast.KindThematicBreak:
		if entering {
			tz.emit(Token{Kind: TokenThematicBreak, Text: "---"})
		}
	}
	return ast.WalkContinue, nil
}

// rawText concatenates a block's source lines verbatim, restoring tab padding.
func (tz *tokenizer) rawText(node ast.Node) string {
	var b strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		if segment.Padding > 0 {
			b.WriteString(strings.Repeat(" ", segment.Padding))
		}
		b.Write(segment.Value(tz.source))
	}
	return b.String()
}

// inlineText returns the unparsed inline source of a heading or paragraph.
func (tz *tokenizer) inlineText(node ast.Node) string {
	var b strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		b.Write(segment.Value(tz.source))
	}
	return strings.TrimRight(b.String(), "\r\n")
}
