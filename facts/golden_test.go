// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package facts

import (
	"path/filepath"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/originflow/factgen/parse"
)

// TestGolden runs every testdata/*.txtar archive: each holds a "program.fg"
// source file and the "grouped.txt" rendering the emitter is expected to
// produce for it, per spec.md §6's grouped text form.
func TestGolden(t *testing.T) {
	archives, err := filepath.Glob("testdata/*.txtar")
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(archives) == 0 {
		t.Fatal("no golden archives found under testdata/")
	}

	for _, path := range archives {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			if err != nil {
				t.Fatalf("txtar.ParseFile: %v", err)
			}
			files := map[string]string{}
			for _, f := range ar.Files {
				files[f.Name] = string(f.Data)
			}

			src, ok := files["program.fg"]
			if !ok {
				t.Fatal("archive is missing program.fg")
			}
			want, ok := files["grouped.txt"]
			if !ok {
				t.Fatal("archive is missing grouped.txt")
			}

			prog, err := parse.Program(src)
			if err != nil {
				t.Fatalf("parse.Program: %v", err)
			}
			b, err := New(prog).Emit()
			if err != nil {
				t.Fatalf("Emit: %v", err)
			}

			got := b.GroupedText()
			if got != want {
				t.Errorf("GroupedText mismatch for %s:\ngot:\n%s\nwant:\n%s", path, got, want)
			}
		})
	}
}
