// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loans

import (
	"testing"

	"github.com/originflow/factgen/ir"
)

func TestBuildCollectsSharedAndUniqueLoans(t *testing.T) {
	// bb0 { y = &'a x; z = &'b mut x; }
	program := &ir.Program{
		BasicBlocks: []ir.BasicBlock{
			{
				Name: "bb0",
				Statements: []ir.Statement{
					{Kind: ir.Assign{
						Place: ir.Place{Base: "y"},
						Expr:  ir.Access{Place: ir.Place{Base: "x"}, Kind: ir.Borrow{Origin: "'a"}},
					}},
					{Kind: ir.Assign{
						Place: ir.Place{Base: "z"},
						Expr:  ir.Access{Place: ir.Place{Base: "x"}, Kind: ir.BorrowMut{Origin: "'b"}},
					}},
				},
			},
		},
	}

	idx := Build(program)
	all := idx.All()
	if len(all) != 2 {
		t.Fatalf("len(All()) = %d, want 2", len(all))
	}
	if all[0].Kind != Shared || all[0].Origin != "'a" {
		t.Errorf("all[0] = %+v, want Shared loan of 'a", all[0])
	}
	if all[1].Kind != Unique || all[1].Origin != "'b" {
		t.Errorf("all[1] = %+v, want Unique loan of 'b", all[1])
	}
	if all[0].Node != ir.NodeAt("bb0", 0) || all[1].Node != ir.NodeAt("bb0", 1) {
		t.Errorf("loan nodes = %v, %v, want bb0[0], bb0[1]", all[0].Node, all[1].Node)
	}

	of := idx.Of(ir.Place{Base: "x"})
	if len(of) != 2 {
		t.Errorf("Of(x) returned %d loans, want 2", len(of))
	}
}

func TestBuildRecursesIntoCallArguments(t *testing.T) {
	// bb0 { f(&'a x, copy y); }
	program := &ir.Program{
		BasicBlocks: []ir.BasicBlock{
			{
				Name: "bb0",
				Statements: []ir.Statement{
					{Kind: ir.ExprStmt{Expr: ir.Call{
						Name: "f",
						Arguments: []ir.Expr{
							ir.Access{Place: ir.Place{Base: "x"}, Kind: ir.Borrow{Origin: "'a"}},
							ir.Access{Place: ir.Place{Base: "y"}, Kind: ir.Copy{}},
						},
					}}},
				},
			},
		},
	}

	idx := Build(program)
	all := idx.All()
	if len(all) != 1 {
		t.Fatalf("len(All()) = %d, want 1 (copy is not a loan)", len(all))
	}
	if all[0].Origin != "'a" || all[0].Kind != Shared {
		t.Errorf("all[0] = %+v, want Shared loan of 'a", all[0])
	}
}

func TestOfMatchesExactPlaceOnly(t *testing.T) {
	program := &ir.Program{
		BasicBlocks: []ir.BasicBlock{
			{
				Name: "bb0",
				Statements: []ir.Statement{
					{Kind: ir.Assign{
						Place: ir.Place{Base: "y"},
						Expr: ir.Access{
							Place: ir.Place{Base: "s", Projections: []ir.Projection{ir.Field{Name: "f"}}},
							Kind:  ir.Borrow{Origin: "'a"},
						},
					}},
				},
			},
		},
	}
	idx := Build(program)
	if got := idx.Of(ir.Place{Base: "s"}); len(got) != 0 {
		t.Errorf("Of(s) = %v, want empty (loan is of s.f, not s)", got)
	}
	if got := idx.Of(ir.Place{Base: "s", Projections: []ir.Projection{ir.Field{Name: "f"}}}); len(got) != 1 {
		t.Errorf("Of(s.f) = %v, want 1 loan", got)
	}
}
