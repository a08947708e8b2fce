package main

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/term"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
       _             _  __
   ___| | ___  _ __ (_)/ _|_   _
  / __| |/ _ \| '_ \| | |_| | | |
  \__ \ | (_) | |_) | |  _| |_| |
  |___/_|\___/| .__/|_|_|  \__, |
              |_|          |___/

  Files in, markdown out. And back.

  Usage: slopify export PATH... [-r] [-o slop.md]
         slopify import slop.md
         slopify --help`)
}

// globalConfigDir returns ~/.slopify, or "" when the home directory is unknown.
func globalConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".slopify")
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	app := newCLIApp(globalConfigDir())
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
