// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"reflect"
	"testing"

	"github.com/originflow/factgen/ir"
)

func TestResolveStructFieldWithGenericSubstitution(t *testing.T) {
	// struct A<T>{b:T}; struct C{d:&'d i32}; let a:A<C>; resolve a.b.d
	program := &ir.Program{
		StructDecls: []ir.StructDecl{
			{
				Name:         "A",
				GenericDecls: []ir.GenericDecl{ir.GenericTy{Name: "T"}},
				FieldDecls:   []ir.VariableDecl{{Name: "b", Ty: ir.Struct{Name: "T"}}},
			},
			{
				Name:       "C",
				FieldDecls: []ir.VariableDecl{{Name: "d", Ty: ir.Ref{Origin: "'d", Target: ir.I32{}}}},
			},
		},
		Variables: []ir.VariableDecl{
			{Name: "a", Ty: ir.Struct{Name: "A", Parameters: []ir.Parameter{ir.ParamTy{Ty: ir.Struct{Name: "C"}}}}},
		},
	}

	r := New(program)
	place := ir.Place{Base: "a", Projections: []ir.Projection{ir.Field{Name: "b"}, ir.Field{Name: "d"}}}
	res, err := r.Resolve(place, ir.Span{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	want := ir.Ref{Origin: "'d", Target: ir.I32{}}
	if !reflect.DeepEqual(res.Ty, want) {
		t.Errorf("Ty = %#v, want %#v", res.Ty, want)
	}
	wantOrigins := []ir.Name{"'d"}
	if !reflect.DeepEqual(res.Origins, wantOrigins) {
		t.Errorf("Origins = %v, want %v", res.Origins, wantOrigins)
	}
}

func TestResolveOrderIsPreOrderOutermostFirst(t *testing.T) {
	// let x: &'a Vec<'b, 'c>; resolving x should list 'a before
	// the parameter origins, in declared order.
	program := &ir.Program{
		Variables: []ir.VariableDecl{
			{
				Name: "x",
				Ty: ir.Ref{
					Origin: "'a",
					Target: ir.Struct{
						Name: "Vec",
						Parameters: []ir.Parameter{
							ir.ParamOrigin{Name: "'b"},
							ir.ParamOrigin{Name: "'c"},
						},
					},
				},
			},
		},
	}
	r := New(program)
	res, err := r.Resolve(ir.Place{Base: "x"}, ir.Span{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []ir.Name{"'a", "'b", "'c"}
	if !reflect.DeepEqual(res.Origins, want) {
		t.Errorf("Origins = %v, want %v", res.Origins, want)
	}
}

func TestResolveUnknownVariable(t *testing.T) {
	r := New(&ir.Program{})
	_, err := r.Resolve(ir.Place{Base: "nope"}, ir.Span{})
	if err == nil {
		t.Fatal("expected an error")
	}
	rerr, ok := err.(*Error)
	if !ok || rerr.Kind != UnknownVariable {
		t.Errorf("got %v, want UnknownVariable", err)
	}
}

func TestResolveFieldOnNonStruct(t *testing.T) {
	program := &ir.Program{Variables: []ir.VariableDecl{{Name: "x", Ty: ir.I32{}}}}
	r := New(program)
	_, err := r.Resolve(ir.Place{Base: "x", Projections: []ir.Projection{ir.Field{Name: "f"}}}, ir.Span{})
	rerr, ok := err.(*Error)
	if !ok || rerr.Kind != FieldOnNonStruct {
		t.Errorf("got %v, want FieldOnNonStruct", err)
	}
}

func TestResolveDerefOnNonRef(t *testing.T) {
	program := &ir.Program{Variables: []ir.VariableDecl{{Name: "x", Ty: ir.I32{}}}}
	r := New(program)
	_, err := r.Resolve(ir.Place{Base: "x", Projections: []ir.Projection{ir.Deref{}}}, ir.Span{})
	rerr, ok := err.(*Error)
	if !ok || rerr.Kind != DerefOnNonRef {
		t.Errorf("got %v, want DerefOnNonRef", err)
	}
}

func TestResolveGenericOriginUnsupported(t *testing.T) {
	// struct S<'a>{f: 'a}: field f's declared type names the struct's
	// generic origin parameter. The textual syntax cannot spell this, so it
	// is modeled directly as Struct{Name: "'a"}.
	program := &ir.Program{
		StructDecls: []ir.StructDecl{
			{
				Name: "S",
				GenericDecls: []ir.GenericDecl{
					ir.GenericOrigin{Name: "'a"},
				},
				FieldDecls: []ir.VariableDecl{
					{Name: "f", Ty: ir.Struct{Name: "'a"}},
				},
			},
		},
		Variables: []ir.VariableDecl{
			{Name: "s", Ty: ir.Struct{Name: "S", Parameters: []ir.Parameter{ir.ParamOrigin{Name: "'real"}}}},
		},
	}
	r := New(program)
	_, err := r.Resolve(ir.Place{Base: "s", Projections: []ir.Projection{ir.Field{Name: "f"}}}, ir.Span{})
	rerr, ok := err.(*Error)
	if !ok || rerr.Kind != GenericOriginUnsupported {
		t.Errorf("got %v, want GenericOriginUnsupported", err)
	}
}
