// Command clarg-demo shows a complete program built on clarg: options are
// declared on a struct, extra ones are bound by hand, and the program owns
// usage output and exit codes.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/SimonDaKappa/go-clarg"
)

type options struct {
	Count   int           `arg:"flag:'-n,required' help:'Count' range:'1..100'"`
	Mode    string        `arg:"flag:'--mode' help:'Mode' choices:'fast|safe|auto'"`
	Timeout time.Duration `arg:"flag:'--timeout' help:'Timeout'"`
	Tags    []string      `arg:"flag:'--tags' help:'Tags' sep:','"`
	DryRun  bool          `arg:"flag:'--dry-run' help:'Dry run'"`
	Files   []string      `arg:"pos:'file,required' help:'Input files'"`
}

// Validate implements clarg.Validatable
func (o *options) Validate() error {
	if o.DryRun && o.Mode == "fast" {
		return errors.New("--dry-run cannot be combined with --mode fast")
	}
	return nil
}

// main is the entrypoint for clarg-demo.
func main() {
	level := new(slog.LevelVar)
	if os.Getenv("CLARG_DEBUG") != "" {
		level.Set(slog.LevelDebug)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	os.Exit(run(os.Stdout, os.Stderr, os.Args, logger))
}

// run parses args and reports the outcome. It returns the exit code.
func run(outW, errW io.Writer, args []string, logger *slog.Logger) int {
	var (
		opts      options
		requestID uuid.UUID
		maxSize   uint64
		version   *semver.Version
	)

	r := clarg.NewRegistry(clarg.Options{Logger: logger})
	if err := define(r, &opts, &requestID, &maxSize, &version); err != nil {
		fmt.Fprintf(errW, "invalid argument definition: %v\n", err)
		return 1
	}

	// ShowUsage survives a failed Parse, so -h works without the required
	// options.
	err := r.Parse(args)
	if r.ShowUsage() {
		usage(outW, args[0], r)
		return 0
	}
	if err != nil {
		color.New(color.FgRed).Fprintln(errW, err)
		return 2
	}

	fmt.Fprintf(outW, "count=%d mode=%q timeout=%s dry-run=%t\n", opts.Count, opts.Mode, opts.Timeout, opts.DryRun)
	fmt.Fprintf(outW, "tags=%s files=%s\n", strings.Join(opts.Tags, ","), strings.Join(opts.Files, ","))
	if requestID != uuid.Nil {
		fmt.Fprintf(outW, "request-id=%s\n", requestID)
	}
	if maxSize > 0 {
		fmt.Fprintf(outW, "max-size=%d\n", maxSize)
	}
	if version != nil {
		fmt.Fprintf(outW, "version=%s\n", version)
	}
	return 0
}

func define(r *clarg.Registry, opts *options, requestID *uuid.UUID, maxSize *uint64, version **semver.Version) error {
	if err := clarg.Bind(r, clarg.Arg{Flag: "--request-id", Description: "Request ID"},
		clarg.As[uuid.UUID](), clarg.Value(requestID)); err != nil {
		return err
	}
	if err := clarg.Bind(r, clarg.Arg{Flag: "--max-size", Description: "Maximum size"},
		clarg.Bytes(), clarg.Value(maxSize)); err != nil {
		return err
	}

	semverFormat, err := clarg.Semver(">= 1.0.0")
	if err != nil {
		return err
	}
	if err := clarg.Bind(r, clarg.Arg{Flag: "--version", Description: "Version"},
		semverFormat, clarg.Value(version)); err != nil {
		return err
	}

	// Positional options are registered last, by BindStruct, since the file
	// list is final.
	return clarg.BindStruct(r, opts)
}

func usage(w io.Writer, appName string, r *clarg.Registry) {
	fmt.Fprintf(w, "Usage: %s [options] file...\n\n", appName)
	for _, b := range r.Bindings() {
		name := b.Flag
		if b.IsPositional() {
			name = "<" + b.Description + ">"
		}
		line := fmt.Sprintf("  %-16s %s", name, b.Description)
		if b.Required {
			line += " (required)"
		}
		fmt.Fprintln(w, line)
	}
}
