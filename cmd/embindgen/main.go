// embindgen builds a binding model from C++ declaration dumps and renders
// embind registration code, TypeScript declarations and pre.js module
// scaffolding from it.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/wukongiii/embindgen/internal/builder"
	"github.com/wukongiii/embindgen/internal/decl"
	"github.com/wukongiii/embindgen/internal/render"
	"github.com/wukongiii/embindgen/internal/style"
)

var (
	inputFiles string
	backend    string
	moduleName string
	styleFile  string
	outputFile string
	verbose    bool
	showHelp   bool
)

func init() {
	flag.StringVar(&inputFiles, "input", "", "Declaration dump files, comma-separated (required)")
	flag.StringVar(&inputFiles, "i", "", "Declaration dump files (shorthand)")

	flag.StringVar(&backend, "backend", style.BackendEmbind, "Output backend: embind, dts or prejs")
	flag.StringVar(&backend, "b", style.BackendEmbind, "Output backend (shorthand)")

	flag.StringVar(&moduleName, "module", "Module", "Generated module name")
	flag.StringVar(&moduleName, "m", "Module", "Generated module name (shorthand)")

	flag.StringVar(&styleFile, "style", "", "Style sheet file (YAML/JSON)")
	flag.StringVar(&styleFile, "s", "", "Style sheet file (shorthand)")

	flag.StringVar(&outputFile, "output", "", "Output file (default: stdout)")
	flag.StringVar(&outputFile, "o", "", "Output file (shorthand)")

	flag.BoolVar(&verbose, "v", false, "Verbose output")
	flag.BoolVar(&showHelp, "h", false, "Show help")
	flag.BoolVar(&showHelp, "help", false, "Show help")

	flag.Usage = usage
}

func usage() {
	fmt.Fprintf(os.Stderr, `embindgen - embind binding generator

Usage:
    embindgen -i <decls.yaml>[,<more.yaml>] [options]

Options:
`)
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
    # Generate the embind registration translation unit
    embindgen -i game.yaml -m GameModule -o bindings.cpp

    # Generate the matching TypeScript declarations
    embindgen -i game.yaml -m GameModule -b dts -o module.d.ts

    # Generate the pre.js scaffolding with a custom style sheet
    embindgen -i game.yaml -b prejs -s style.yaml -o pre.js

    # Merge several declaration dumps into one module
    embindgen -i core.yaml,physics.yaml -m Engine -o bindings.cpp

`)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if showHelp {
		flag.Usage()
		return nil
	}

	if inputFiles == "" {
		return fmt.Errorf("input file is required (-i or --input)")
	}

	log, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	sheet := style.Default()
	if styleFile != "" {
		if err := sheet.LoadFile(styleFile); err != nil {
			return fmt.Errorf("loading style sheet: %w", err)
		}
	}

	b := builder.New(moduleName, log)
	for _, path := range parseCommaSeparated(inputFiles) {
		file, err := decl.LoadFile(path)
		if err != nil {
			return fmt.Errorf("loading declarations: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Loaded %d declarations from %s\n", len(file.Decls), path)
		}
		if err := b.AddFile(file); err != nil {
			return err
		}
	}

	project, report, err := b.Build(sheet.Mangling)
	if err != nil {
		return err
	}

	ctx, err := sheet.Resolve(backend, project.Kinds())
	if err != nil {
		return err
	}

	out, err := render.Render(project, report, ctx)
	if err != nil {
		return err
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(out), 0o644); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
	} else {
		fmt.Print(out)
	}

	if verbose || len(report.Omissions) > 0 {
		fmt.Fprintln(os.Stderr, report.Summary())
	}
	if verbose && outputFile != "" {
		fmt.Fprintf(os.Stderr, "Generated %s output to %s\n", backend, outputFile)
	}

	return nil
}

func newLogger(verbose bool) (*zap.SugaredLogger, error) {
	if !verbose {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		log, err := cfg.Build()
		if err != nil {
			return nil, err
		}
		return log.Sugar(), nil
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return log.Sugar(), nil
}

// parseCommaSeparated splits a comma-separated string into a slice of trimmed strings.
func parseCommaSeparated(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
