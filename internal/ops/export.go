package ops

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/SlapDrone/slopify/internal/config"
	"github.com/SlapDrone/slopify/internal/errors"
	"github.com/SlapDrone/slopify/internal/logging"
	"github.com/SlapDrone/slopify/internal/slop"
	"github.com/SlapDrone/slopify/internal/walk"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Paths     []string     // required: files and/or directories
	Base      string       // optional, default: working directory
	Output    string       // optional, default: cfg.Output, relative to Base
	Recursive bool         // expand directories to their whole tree (also enabled by cfg.Recursive)
	ToStdout  bool         // render only; the document is returned and nothing is written
	Logger    *slog.Logger // optional
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string   `json:"path,omitempty"`
	Files      []string `json:"files"`
	Binary     []string `json:"binary,omitempty"`
	Unreadable []string `json:"unreadable,omitempty"`
	Skipped    []string `json:"skipped,omitempty"`
	Bytes      int      `json:"bytes"`
	Document   string   `json:"document,omitempty"`
}

// Export encodes the files named by input.Paths into one document.
//
// Files that can't be read are exported with placeholder content and reported in
// Unreadable; the output document itself is never included. The document is written
// atomically unless ToStdout is set, in which case it is returned in Document.
func Export(ctx context.Context, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	cfg = orDefault(cfg)
	logger := logging.OrDiscard(input.Logger)

	if len(input.Paths) == 0 {
		return nil, errors.NewInvalidRequest("at least one path is required")
	}

	base, err := resolveBase(input.Base)
	if err != nil {
		return nil, err
	}

	outputPath := ""
	if !input.ToStdout {
		outputPath = input.Output
		if outputPath == "" {
			outputPath = cfg.Output
		}
		if outputPath == "" {
			outputPath = config.DefaultOutput
		}
		if !filepath.IsAbs(outputPath) {
			outputPath = filepath.Join(base, outputPath)
		}
	}

	matcher, err := walk.NewMatcher(base, cfg.Ignore, cfg.Deny)
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(input.Paths))
	for i, p := range input.Paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		paths[i] = p
	}

	files, err := walk.Collect(ctx, paths, walk.Options{
		Base:      base,
		Recursive: input.Recursive || cfg.Recursive,
		Matcher:   matcher,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	out := &ExportOutput{Files: []string{}}
	sources := make([]slop.Source, 0, len(files))
	for _, file := range files {
		select {
		case <-ctx.Done():
			return nil, errors.NewCancelled("export")
		default:
		}

		if outputPath != "" && samePath(file, outputPath) {
			logger.Debug("skipping output document", "path", file)
			out.Skipped = append(out.Skipped, file)
			continue
		}

		src, err := slop.LoadSource(base, file)
		if err != nil {
			if src.Path == "" {
				return nil, errors.NewInvalidRequest("file is outside the base directory: " + file)
			}
			logger.Warn("unreadable file exported as placeholder", "path", file, "error", err)
			src.Content = slop.BinaryPlaceholder
			src.Binary = true
			out.Unreadable = append(out.Unreadable, src.Path)
		} else if src.Binary {
			logger.Debug("binary file exported as placeholder", "path", file)
			out.Binary = append(out.Binary, src.Path)
		}
		sources = append(sources, src)
		out.Files = append(out.Files, src.Path)
	}

	langs := languagesFor(cfg)
	var b strings.Builder
	if err := slop.WriteDocument(&b, sources, langs); err != nil {
		return nil, errors.NewInternal(err)
	}
	document := b.String()
	out.Bytes = len(document)

	if input.ToStdout {
		out.Document = document
		logger.Info("rendered document", "files", len(sources))
		return out, nil
	}

	if err := writeFileAtomic(outputPath, []byte(document)); err != nil {
		return nil, err
	}
	out.Path = outputPath
	logger.Info("exported", "path", outputPath, "files", len(sources), "bytes", out.Bytes)
	return out, nil
}
