package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/SlapDrone/slopify/internal/config"
	"github.com/SlapDrone/slopify/internal/errors"
	"github.com/SlapDrone/slopify/internal/logging"
	"github.com/SlapDrone/slopify/internal/mcp"
	"github.com/SlapDrone/slopify/internal/ops"
)

func init() {
	// -v belongs to --verbose.
	cli.VersionFlag = &cli.BoolFlag{Name: "version", Aliases: []string{"V"}, Usage: "print the version"}
}

// appState carries what every command needs once flags are parsed.
type appState struct {
	globalDir string // ~/.slopify; empty skips the global config
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(globalDir string) *cli.App {
	s := &appState{globalDir: globalDir}
	app := &cli.App{
		Name:    "slopify",
		Usage:   "Bundle files into one markdown document and unpack them again",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Debug logging"},
			&cli.StringFlag{Name: "log-level", Usage: "Log level: debug|info|warn|error"},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Config file (default: nearest .slopify.toml)"},
		},
		Commands: []*cli.Command{
			exportCmd(s),
			importCmd(s),
			mcpCmd(s),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// load resolves configuration and the logger for one invocation.
func (s *appState) load(c *cli.Context) (*config.Config, *slog.Logger, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, nil, errors.NewInternal(err)
	}
	cfg, err := config.LoadWithRepo(s.globalDir, wd, c.String("config"))
	if err != nil {
		return nil, nil, errors.NewInvalidRequest(fmt.Sprintf("failed to load config: %v", err))
	}

	level := cfg.LogLevel
	if lvl := c.String("log-level"); lvl != "" {
		level = logging.Level(lvl)
	}
	if c.Bool("verbose") {
		level = logging.LevelDebug
	}
	logger, err := logging.New(c.App.ErrWriter, level)
	if err != nil {
		return nil, nil, errors.NewInvalidRequest(err.Error())
	}
	return cfg, logger, nil
}

// exportCmd creates the export command.
func exportCmd(s *appState) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Aliases:   []string{"vomit"},
		Usage:     "Dump files and directories into a markdown document",
		ArgsUsage: "PATH...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output document (default: slop.md)"},
			&cli.BoolFlag{Name: "recursive", Aliases: []string{"r"}, Usage: "Include files from subdirectories"},
			&cli.StringFlag{Name: "base", Aliases: []string{"b"}, Usage: "Directory paths are relative to (default: working directory)"},
			&cli.BoolFlag{Name: "stdout", Usage: "Print the document instead of writing it"},
			&cli.BoolFlag{Name: "json", Usage: "Print the result as JSON"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("at least one path is required"))
			}
			cfg, logger, err := s.load(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Export(c.Context, cfg, ops.ExportInput{
				Paths:     c.Args().Slice(),
				Base:      c.String("base"),
				Output:    c.String("output"),
				Recursive: c.Bool("recursive"),
				ToStdout:  c.Bool("stdout"),
				Logger:    logger,
			})
			if err != nil {
				return outputError(err)
			}

			if c.Bool("stdout") {
				_, err := io.WriteString(c.App.Writer, output.Document)
				return err
			}
			if c.Bool("json") {
				return outputJSON(c.App.Writer, output)
			}
			fmt.Fprintf(c.App.Writer, "Dumped %d files to %s\n", len(output.Files), output.Path)
			return nil
		},
	}
}

// importCmd creates the import command.
func importCmd(s *appState) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Aliases:   []string{"slather"},
		Usage:     "Write the files described by a markdown document (- reads stdin)",
		ArgsUsage: "DOCUMENT",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "base", Aliases: []string{"b"}, Usage: "Directory to write under (default: working directory)"},
			&cli.BoolFlag{Name: "dry-run", Aliases: []string{"n"}, Usage: "Show what would be written"},
			&cli.BoolFlag{Name: "json", Usage: "Print the result as JSON"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("exactly one document is required"))
			}
			cfg, logger, err := s.load(c)
			if err != nil {
				return outputError(err)
			}

			source := c.Args().First()
			input := ops.ImportInput{
				Base:   c.String("base"),
				DryRun: c.Bool("dry-run"),
				Logger: logger,
			}
			if source == "-" {
				text, err := readStdin(c.App.Reader)
				if err != nil {
					return outputError(err)
				}
				if text == "" {
					return outputError(errors.NewInvalidRequest("document on stdin is empty"))
				}
				input.Text = text
				source = "stdin"
			} else {
				input.Path = source
			}

			output, err := ops.Import(c.Context, cfg, input)
			if err != nil {
				return outputError(err)
			}

			if c.Bool("json") {
				return outputJSON(c.App.Writer, output)
			}
			if output.DryRun {
				for _, f := range output.Files {
					fmt.Fprintln(c.App.Writer, f)
				}
				return nil
			}
			fmt.Fprintf(c.App.Writer, "Applied %d files from %s\n", len(output.Files), source)
			return nil
		},
	}
}

// mcpCmd creates the mcp command.
func mcpCmd(s *appState) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve export and import as MCP tools over stdio",
		Action: func(c *cli.Context) error {
			cfg, logger, err := s.load(c)
			if err != nil {
				return outputError(err)
			}
			if err := mcp.Run(cfg, logger, Version); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// Helper functions

// outputJSON marshals result to w as JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var slopErr *errors.SlopError
	if stderrors.As(err, &slopErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", slopErr.Code, slopErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// readStdin reads a whole document from r, up to ops.MaxDocumentBytes.
func readStdin(r io.Reader) (string, error) {
	if r == nil {
		r = os.Stdin
	}
	data, err := io.ReadAll(io.LimitReader(r, ops.MaxDocumentBytes+1))
	if err != nil {
		return "", errors.NewReadFailed("stdin", err)
	}
	if len(data) > ops.MaxDocumentBytes {
		return "", errors.NewInvalidRequest("document on stdin exceeds the size limit")
	}
	return string(data), nil
}
