// Command ivyc is the Ivy compiler's command-line entry point: a
// github.com/urfave/cli/v2 application over the lex/parse/analyze
// pipeline, mirroring the teacher's main.go ("init"/"build"/"typeinfo"
// subcommands over a panic/recover pipeline wrapped with tracerr).
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/repr"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"

	"github.com/ivylang/ivy/internal/analyzer"
	"github.com/ivylang/ivy/internal/ast"
	"github.com/ivylang/ivy/internal/interpreter"
	"github.com/ivylang/ivy/internal/llvmgen"
	"github.com/ivylang/ivy/internal/manifest"
	"github.com/ivylang/ivy/internal/parser"
	"github.com/ivylang/ivy/internal/translator"
)

var dumpASTFlag = &cli.BoolFlag{
	Name:  "dump-ast",
	Usage: "pretty-print the typed AST, then run the requested action",
}

// entryFile resolves which of the given .ivy paths is the program's
// entry point. A single path needs no manifest. Given more than one,
// it reads ivy.yaml from the working directory and matches its Entry
// field against one of the paths by base name.
func entryFile(paths []string) (string, error) {
	switch len(paths) {
	case 0:
		return "", fmt.Errorf("ivyc: no source file given")
	case 1:
		return paths[0], nil
	}

	m, err := manifest.Load(manifest.FileName)
	if err != nil {
		return "", fmt.Errorf("ivyc: %d source files given but %s could not be read: %w", len(paths), manifest.FileName, err)
	}
	if m.Entry == "" {
		return "", fmt.Errorf("ivyc: %d source files given but %s names no entry", len(paths), manifest.FileName)
	}
	for _, p := range paths {
		if filepath.Base(p) == m.Entry {
			return p, nil
		}
	}
	return "", fmt.Errorf("ivyc: %s names entry %q, which is not among the given files", manifest.FileName, m.Entry)
}

func readSource(c *cli.Context) (string, error) {
	path, err := entryFile(c.Args().Slice())
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", tracerr.Wrap(err)
	}
	return string(data), nil
}

// compile lexes, parses, and analyzes the command's entry file (see
// entryFile), returning its typed AST.
func compile(c *cli.Context) (*ast.Source, error) {
	source, err := readSource(c)
	if err != nil {
		return nil, err
	}
	src, err := parser.Parse(source)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	if _, err := analyzer.Analyze(src); err != nil {
		return nil, tracerr.Wrap(err)
	}
	if c.Bool("dump-ast") {
		repr.Println(src)
	}
	return src, nil
}

func main() {
	app := &cli.App{
		Name:  "ivyc",
		Usage: "the Ivy compiler",
		ExitErrHandler: func(c *cli.Context, err error) {
			tracerr.PrintSourceColor(err)
			os.Exit(1)
		},
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "write an ivy.yaml manifest for a new package",
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						return fmt.Errorf("ivyc init: no package name given")
					}
					return manifest.Write(manifest.FileName, &manifest.Manifest{Package: name})
				},
			},
			{
				Name:      "check",
				Usage:     "lex, parse, and analyze a file, reporting the first error",
				ArgsUsage: "<file.ivy> [more.ivy ...]",
				Flags:     []cli.Flag{dumpASTFlag},
				Action: func(c *cli.Context) error {
					if _, err := compile(c); err != nil {
						return err
					}
					fmt.Println("ok")
					return nil
				},
			},
			{
				Name:      "run",
				Usage:     "lex, parse, analyze, then interpret a file",
				ArgsUsage: "<file.ivy> [more.ivy ...]",
				Flags:     []cli.Flag{dumpASTFlag},
				Action: func(c *cli.Context) error {
					src, err := compile(c)
					if err != nil {
						return err
					}
					code, err := interpreter.RunMain(src)
					if err != nil {
						return err
					}
					os.Exit(code)
					return nil
				},
			},
			{
				Name:      "translate",
				Usage:     "lex, parse, analyze, then emit host-language source",
				ArgsUsage: "<file.ivy> [more.ivy ...]",
				Flags: []cli.Flag{
					dumpASTFlag,
					&cli.StringFlag{Name: "out", Usage: "write the translation to this file instead of stdout"},
				},
				Action: func(c *cli.Context) error {
					src, err := compile(c)
					if err != nil {
						return err
					}
					out := translator.Translate(src)
					if dst := c.String("out"); dst != "" {
						return os.WriteFile(dst, []byte(out), 0o644)
					}
					fmt.Print(out)
					return nil
				},
			},
			{
				Name:      "build",
				Usage:     "lower a file to another backend",
				ArgsUsage: "<file.ivy> [more.ivy ...]",
				Flags: []cli.Flag{
					dumpASTFlag,
					&cli.StringFlag{Name: "backend", Value: "llvm-ir", Usage: "the only supported value is llvm-ir"},
					&cli.StringFlag{Name: "out", Usage: "write the module to this file instead of stdout"},
				},
				Action: func(c *cli.Context) error {
					if backend := c.String("backend"); backend != "llvm-ir" {
						return fmt.Errorf("ivyc build: unsupported backend %q", backend)
					}
					src, err := compile(c)
					if err != nil {
						return err
					}
					module, err := llvmgen.Generate(src)
					if err != nil {
						return tracerr.Wrap(err)
					}
					out := module.String()
					if dst := c.String("out"); dst != "" {
						return os.WriteFile(dst, []byte(out), 0o644)
					}
					fmt.Print(out)
					return nil
				},
			},
		},
	}

	app.Run(os.Args)
}
