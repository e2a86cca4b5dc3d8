// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ir defines the algebraic data model that the parser produces and
// the place resolver and fact emitter consume: types, places with
// projections, expressions, statements, basic blocks and whole programs.
//
// The IR is constructed once, by the parser, and is immutable thereafter.
package ir

// Name is an identifier: a variable, struct, function, field or origin name.
// Origin names include their leading apostrophe (e.g. "'a").
type Name = string

// Program is an ordered collection of struct declarations, function
// prototypes, variable declarations and basic blocks. Names are unique
// within each collection.
type Program struct {
	StructDecls  []StructDecl
	FnPrototypes []FnPrototype
	Variables    []VariableDecl
	BasicBlocks  []BasicBlock
}

// Variable looks up a declared variable by name, nil if absent.
func (p *Program) Variable(name Name) *VariableDecl {
	for i := range p.Variables {
		if p.Variables[i].Name == name {
			return &p.Variables[i]
		}
	}
	return nil
}

// Struct looks up a struct declaration by name, nil if absent.
func (p *Program) Struct(name Name) *StructDecl {
	for i := range p.StructDecls {
		if p.StructDecls[i].Name == name {
			return &p.StructDecls[i]
		}
	}
	return nil
}

// Block looks up a basic block by name, nil if absent.
func (p *Program) Block(name Name) *BasicBlock {
	for i := range p.BasicBlocks {
		if p.BasicBlocks[i].Name == name {
			return &p.BasicBlocks[i]
		}
	}
	return nil
}

// StructDecl is a nominal struct type with generic parameters and fields.
type StructDecl struct {
	Name         Name
	GenericDecls []GenericDecl
	FieldDecls   []VariableDecl
}

// Field looks up a field declaration by name, nil if absent.
func (s *StructDecl) Field(name Name) *VariableDecl {
	for i := range s.FieldDecls {
		if s.FieldDecls[i].Name == name {
			return &s.FieldDecls[i]
		}
	}
	return nil
}

// GenericIndex returns the index of the Ty-kind generic declaration named
// name, and ok=true, or ok=false if no such generic type parameter exists
// (either absent entirely, or present as a GenericOrigin instead).
func (s *StructDecl) GenericIndex(name Name) (idx int, ok bool) {
	for i, g := range s.GenericDecls {
		if ty, isTy := g.(GenericTy); isTy && ty.Name == name {
			return i, true
		}
	}
	return 0, false
}

// VariableDecl is a name/type pair: a top-level variable or a struct field.
type VariableDecl struct {
	Name Name
	Ty   Ty
}

// FnPrototype declares a function's generic parameters, argument types and
// return type. The emitter never consults a prototype: call arguments are
// evaluated, but no subset is introduced across a call boundary (spec §9).
type FnPrototype struct {
	Name         Name
	GenericDecls []GenericDecl
	ArgTys       []Ty
	RetTy        Ty
}

// GenericDecl is a struct or function generic parameter: either an origin
// name or a type name.
type GenericDecl interface{ isGenericDecl() }

// GenericOrigin declares a generic origin parameter, e.g. the `'a` in
// struct S<'a> { ... }.
type GenericOrigin struct{ Name Name }

// GenericTy declares a generic type parameter, e.g. the `T` in
// struct S<T> { ... }.
type GenericTy struct{ Name Name }

func (GenericOrigin) isGenericDecl() {}
func (GenericTy) isGenericDecl()     {}

// Ty is the tagged-variant type of the IR's type language.
type Ty interface{ isTy() }

// I32 is the primitive integer type.
type I32 struct{}

// UnitTy is the empty product type.
type UnitTy struct{}

// Ref is a shared reference: `&origin target`.
type Ref struct {
	Origin Name
	Target Ty
}

// RefMut is a unique mutable reference: `&origin mut target`.
type RefMut struct {
	Origin Name
	Target Ty
}

// Struct is a nominal type instantiated with generic parameters. The arity
// and kinds of Parameters must match the referenced StructDecl's
// GenericDecls.
type Struct struct {
	Name       Name
	Parameters []Parameter
}

func (I32) isTy()    {}
func (UnitTy) isTy() {}
func (Ref) isTy()    {}
func (RefMut) isTy() {}
func (Struct) isTy() {}

// Parameter is a single generic argument supplied at a struct's use site:
// either an origin or a type.
type Parameter interface{ isParameter() }

// ParamOrigin supplies an origin for a generic origin parameter.
type ParamOrigin struct{ Name Name }

// ParamTy supplies a type for a generic type parameter.
type ParamTy struct{ Ty Ty }

func (ParamOrigin) isParameter() {}
func (ParamTy) isParameter()     {}
