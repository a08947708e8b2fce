package ops

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/SlapDrone/slopify/internal/config"
	"github.com/SlapDrone/slopify/internal/errors"
	"github.com/SlapDrone/slopify/internal/logging"
	"github.com/SlapDrone/slopify/internal/slop"
)

// MaxDocumentBytes bounds how much of a document Import will read.
const MaxDocumentBytes = 64 << 20

// ImportInput contains parameters for the Import operation.
// Exactly one of Path and Text must be set.
type ImportInput struct {
	Path   string       // document file
	Text   string       // document content (stdin, MCP)
	Base   string       // optional, default: working directory
	DryRun bool         // decode and validate only
	Logger *slog.Logger // optional
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Files      []string `json:"files"`
	Written    int      `json:"written"`
	Duplicates []string `json:"duplicates,omitempty"`
	Suppressed int      `json:"suppressed,omitempty"`
	DryRun     bool     `json:"dry_run,omitempty"`
}

// Import decodes a document and writes its files under the base directory.
//
// Every destination is validated before the first write. Writes then happen in
// document order; when a path appears twice, the later section wins. A write
// failure aborts the remaining records without rolling back earlier ones.
func Import(ctx context.Context, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	cfg = orDefault(cfg)
	logger := logging.OrDiscard(input.Logger)

	if (input.Path == "") == (input.Text == "") {
		return nil, errors.NewInvalidRequest("exactly one of path or text is required")
	}

	base, err := resolveBase(input.Base)
	if err != nil {
		return nil, err
	}

	document := input.Text
	if input.Path != "" {
		document, err = readDocument(input.Path)
		if err != nil {
			return nil, err
		}
	}

	decoder := slop.NewDecoder(base, languagesFor(cfg))
	records := decoder.Decode(slop.Tokenize([]byte(document)))
	if n := decoder.Suppressed(); n > 0 {
		logger.Warn("sections without a file path were skipped", "count", n)
	}

	out := &ImportOutput{
		Files:      make([]string, 0, len(records)),
		Suppressed: decoder.Suppressed(),
		DryRun:     input.DryRun,
	}

	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		if err := ValidateDestination(base, rec.Path, cfg); err != nil {
			return nil, err
		}
		if seen[rec.Path] {
			logger.Warn("path appears more than once; the later section wins", "path", rec.Path)
			out.Duplicates = append(out.Duplicates, rec.Path)
			continue
		}
		seen[rec.Path] = true
		out.Files = append(out.Files, rec.Path)
	}

	if input.DryRun {
		logger.Info("dry run", "files", len(out.Files))
		return out, nil
	}

	written, err := WriteRecords(ctx, records, logger)
	out.Written = len(written)
	if err != nil {
		return nil, err
	}

	logger.Info("imported", "files", len(out.Files), "writes", out.Written)
	return out, nil
}

// readDocument reads a whole document file.
func readDocument(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewFileNotFound(path)
		}
		return "", errors.NewReadFailed(path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxDocumentBytes+1))
	if err != nil {
		return "", errors.NewReadFailed(path, err)
	}
	if len(data) > MaxDocumentBytes {
		return "", errors.NewInvalidRequest("document exceeds the size limit: " + path)
	}
	return string(data), nil
}
