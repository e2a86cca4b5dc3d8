// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command factgen reads one or more source files written in the textual
// surface syntax of spec.md §6 and emits the borrow-check fact relations
// for each: cfg_edge, access_origin, clear_origin, invalidate_origin and
// introduce_subset, plus the auxiliary node_text relation.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/originflow/factgen/diag"
	"github.com/originflow/factgen/facts"
	"github.com/originflow/factgen/ir"
	"github.com/originflow/factgen/parse"
	"github.com/originflow/factgen/reach"
)

var (
	formatFlag = flag.String("format", "plain",
		"Output form: 'plain' (grouped text to stdout) or 'facts' (one .facts file per relation under -out)")

	outFlag = flag.String("out", "",
		"Output directory for -format=facts; required in that mode, one subdirectory per input file")
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s [flags] FILE ...

  The <flag> arguments are

`, os.Args[0])
	flag.PrintDefaults()
	os.Exit(1)
}

// result holds the outcome of processing a single input file, collected by
// a worker goroutine for later, strictly-ordered reporting.
type result struct {
	file     string
	bundle   *facts.Bundle
	log      *diag.Log
	warnings []string
}

func main() {
	flag.Parse()
	args := flag.Args()

	if len(args) == 0 {
		usage()
	}
	if *formatFlag != "plain" && *formatFlag != "facts" {
		fmt.Fprintf(os.Stderr, "unknown -format %q: want 'plain' or 'facts'\n", *formatFlag)
		os.Exit(1)
	}
	if *formatFlag == "facts" && *outFlag == "" {
		fmt.Fprintln(os.Stderr, "-out is required when -format=facts")
		os.Exit(1)
	}

	results := make([]result, len(args))

	g, _ := errgroup.WithContext(context.Background())
	for i, file := range args {
		i, file := i, file
		g.Go(func() error {
			results[i] = process(file)
			return nil
		})
	}
	// Every worker's error is folded into its own result rather than
	// propagated through errgroup: one file's parse failure must not cancel
	// its siblings (spec.md §5's "independent batch" model).
	_ = g.Wait()

	failed := false
	for _, r := range results {
		if r.log.ContainsErrors() {
			failed = true
		}
		fmt.Fprint(os.Stderr, r.log.String())
		for _, w := range r.warnings {
			fmt.Fprintf(os.Stderr, "%s: %s\n", r.file, w)
		}
		if r.bundle == nil {
			continue
		}
		if err := report(r); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", r.file, err)
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}

// process parses and emits facts for a single file. Errors are captured in
// the returned log rather than returned directly, so the caller can keep
// processing the rest of the batch.
func process(file string) result {
	log := diag.NewLog()
	src, err := os.ReadFile(file)
	if err != nil {
		log.Report(diag.FATAL_ERROR, file, ir.Span{}, "%s", err)
		return result{file: file, log: log}
	}

	prog, err := parse.Program(string(src))
	if err != nil {
		if pe, ok := err.(*parse.Error); ok {
			log.Report(diag.FATAL_ERROR, file, pe.Span, "%s", pe.Message)
		} else {
			log.Report(diag.FATAL_ERROR, file, ir.Span{}, "%s", err)
		}
		return result{file: file, log: log}
	}

	var warnings []string
	for _, name := range reach.Unreachable(prog) {
		warnings = append(warnings, fmt.Sprintf("block %q is unreachable from the entry block", name))
	}

	b, err := facts.New(prog).Emit()
	if err != nil {
		log.Report(diag.FATAL_ERROR, file, ir.Span{}, "%s", err)
		return result{file: file, log: log, warnings: warnings}
	}

	return result{file: file, bundle: b, log: log, warnings: warnings}
}

// report renders one file's bundle according to -format.
func report(r result) error {
	switch *formatFlag {
	case "plain":
		fmt.Printf("%s:\n\n", r.file)
		fmt.Print(r.bundle.GroupedText())
		return nil

	case "facts":
		dir := filepath.Join(*outFlag, sanitize(r.file))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		var opened []*os.File
		defer func() {
			for _, f := range opened {
				f.Close()
			}
		}()
		return r.bundle.WriteFactsDir(func(name string) (io.Writer, error) {
			f, err := os.Create(filepath.Join(dir, name))
			if err != nil {
				return nil, err
			}
			opened = append(opened, f)
			return f, nil
		})

	default:
		return fmt.Errorf("unknown format %q", *formatFlag)
	}
}

// sanitize turns a file path into a directory-safe name: every path
// separator becomes an underscore.
func sanitize(file string) string {
	out := make([]rune, 0, len(file))
	for _, r := range file {
		if r == filepath.Separator || r == '/' {
			out = append(out, '_')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
