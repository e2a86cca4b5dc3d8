// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reach

import (
	"reflect"
	"testing"

	"github.com/originflow/factgen/ir"
)

func block(name string, succs ...string) ir.BasicBlock {
	return ir.BasicBlock{Name: name, Successors: succs}
}

func TestUnreachableNoUnreachableBlocks(t *testing.T) {
	program := &ir.Program{
		BasicBlocks: []ir.BasicBlock{
			block("bb0", "bb1"),
			block("bb1"),
		},
	}
	if got := Unreachable(program); got != nil {
		t.Errorf("Unreachable = %v, want nil", got)
	}
}

func TestUnreachableFindsDeadBlock(t *testing.T) {
	program := &ir.Program{
		BasicBlocks: []ir.BasicBlock{
			block("bb0", "bb1"),
			block("bb1"),
			block("bb2"),
		},
	}
	got := Unreachable(program)
	want := []ir.Name{"bb2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Unreachable = %v, want %v", got, want)
	}
}

func TestUnreachableHandlesCycles(t *testing.T) {
	program := &ir.Program{
		BasicBlocks: []ir.BasicBlock{
			block("bb0", "bb1"),
			block("bb1", "bb0"),
			block("bb2", "bb2"),
		},
	}
	got := Unreachable(program)
	want := []ir.Name{"bb2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Unreachable = %v, want %v", got, want)
	}
}

func TestUnreachableEmptyProgram(t *testing.T) {
	if got := Unreachable(&ir.Program{}); got != nil {
		t.Errorf("Unreachable(empty) = %v, want nil", got)
	}
}
