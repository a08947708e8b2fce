package slop

import (
	"path/filepath"
	"strings"
)

// decoderMode is the decoder's current state.
type decoderMode int

const (
	modeScanning decoderMode = iota // no open section
	modePlain                       // collecting fences of a plain file
	modeMarkup                      // collecting every token of a markdown file
)

// Decoder rebuilds file records from a token stream.
//
// A level-1 heading opens a section; its text (backticks stripped) names the file
// relative to the base directory. Plain sections keep only fenced content, so prose
// around the fence is dropped. Markup sections keep every token up to the next
// level-1 heading. Content is unescaped once per section, after joining.
type Decoder struct {
	base  string
	langs *Languages

	mode         decoderMode
	path         string
	parts        []string
	inHeader     bool
	awaitingName bool

	records    []FileRecord
	suppressed int
}

// NewDecoder returns a decoder resolving relative paths against base.
// A nil langs uses DefaultLanguages.
func NewDecoder(base string, langs *Languages) *Decoder {
	return &Decoder{base: base, langs: langs}
}

// Decode consumes tokens and returns the records in document order.
// Duplicate paths are returned as separate records; writing them in order
// leaves the later section's content on disk.
func (d *Decoder) Decode(tokens []Token) []FileRecord {
	for _, tok := range tokens {
		d.step(tok)
	}
	d.flush()
	records := d.records
	d.records = nil
	return records
}

// Suppressed reports how many headers were dropped for lacking a path.
func (d *Decoder) Suppressed() int {
	return d.suppressed
}

func (d *Decoder) step(tok Token) {
	if tok.Kind == TokenHeadingOpen && tok.Level == 1 {
		d.flush()
		d.inHeader = true
		d.awaitingName = true
		return
	}

	if d.inHeader {
		switch tok.Kind {
		case TokenInline:
			if d.awaitingName {
				d.awaitingName = false
				d.begin(tok.Text)
			}
		case TokenHeadingClose:
			d.inHeader = false
		}
		return
	}

	switch d.mode {
	case modePlain:
		if tok.Kind == TokenFence {
			d.parts = append(d.parts, tok.Text)
		}
	case modeMarkup:
		switch tok.Kind {
		case TokenHeadingOpen:
			d.parts = append(d.parts, strings.Repeat("#", tok.Level))
		default:
			d.parts = append(d.parts, tok.Text)
		}
	}
}

// begin opens a section for the header text raw.
func (d *Decoder) begin(raw string) {
	name := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), "`"))
	if name == "" {
		d.suppressed++
		return
	}
	d.path = ResolvePath(d.base, name)
	if d.langs.Kind(d.path) == SectionMarkup {
		d.mode = modeMarkup
	} else {
		d.mode = modePlain
	}
}

// flush closes the open section, if any, and resets the accumulator.
func (d *Decoder) flush() {
	if d.mode != modeScanning && d.path != "" {
		kind := SectionPlain
		if d.mode == modeMarkup {
			kind = SectionMarkup
		}
		d.records = append(d.records, FileRecord{
			Path:    d.path,
			Content: Unescape(strings.Join(d.parts, "\n")),
			Kind:    kind,
		})
	} else if d.awaitingName {
		// header opened but its text never arrived
		d.suppressed++
	}
	d.mode = modeScanning
	d.path = ""
	d.parts = nil
	d.inHeader = false
	d.awaitingName = false
}

// Decode is shorthand for NewDecoder(base, langs).Decode(tokens).
func Decode(tokens []Token, base string, langs *Languages) []FileRecord {
	return NewDecoder(base, langs).Decode(tokens)
}

// Parse tokenizes document and decodes it.
func Parse(document, base string, langs *Languages) []FileRecord {
	return Decode(Tokenize([]byte(document)), base, langs)
}

// ResolvePath joins a header path onto base. Absolute header paths are kept.
func ResolvePath(base, name string) string {
	p := filepath.FromSlash(name)
	if filepath.IsAbs(p) || base == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
