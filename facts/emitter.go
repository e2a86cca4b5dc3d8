// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package facts

import (
	"fmt"

	"github.com/originflow/factgen/invalidate"
	"github.com/originflow/factgen/ir"
	"github.com/originflow/factgen/loans"
	"github.com/originflow/factgen/resolve"
)

// Kind enumerates the emitter's own failure taxonomy, layered on top of
// whatever resolve.Kind a wrapped resolution error carries.
type Kind int

const (
	// ShapeMismatch is raised when subset recursion finds the LHS and RHS
	// types do not have matching shapes at some depth.
	ShapeMismatch Kind = iota
)

func (k Kind) String() string {
	switch k {
	case ShapeMismatch:
		return "shape mismatch"
	default:
		return "unknown emitter error"
	}
}

// Error is a fatal emitter failure, carrying the offending span. Emission
// aborts as soon as one occurs; no partial Bundle is returned (spec.md §4.4,
// §7).
type Error struct {
	Kind    Kind
	Message string
	Span    ir.Span
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Span)
}

func shapeMismatch(span ir.Span, format string, args ...any) *Error {
	return &Error{Kind: ShapeMismatch, Message: fmt.Sprintf(format, args...), Span: span}
}

// Emitter drives emission over a program's basic blocks. It is pure and
// stateless modulo the loan index (built once, read-only thereafter) and the
// Bundle it is actively filling (spec.md §4.4's "state machine").
type Emitter struct {
	program  *ir.Program
	resolver *resolve.Resolver
	loanIdx  *loans.Index
}

// New builds an Emitter for program, constructing its loan index eagerly.
func New(program *ir.Program) *Emitter {
	return &Emitter{
		program:  program,
		resolver: resolve.New(program),
		loanIdx:  loans.Build(program),
	}
}

// Emit walks every basic block in program order and returns the resulting
// Bundle, or the first fatal error encountered.
func (e *Emitter) Emit() (*Bundle, error) {
	b := &Bundle{}
	for _, bb := range e.program.BasicBlocks {
		if err := e.emitBlock(&bb, b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (e *Emitter) emitBlock(bb *ir.BasicBlock, b *Bundle) error {
	e.emitCFGEdges(bb, b)

	for idx, stmt := range bb.Statements {
		node := ir.NodeAt(bb.Name, idx)
		switch k := stmt.Kind.(type) {
		case ir.Assign:
			if err := e.emitExpr(k.Expr, node, stmt.Span, b); err != nil {
				return err
			}
			if err := e.emitAssignLHS(k.Place, k.Expr, node, stmt.Span, b); err != nil {
				return err
			}
		case ir.ExprStmt:
			if err := e.emitExpr(k.Expr, node, stmt.Span, b); err != nil {
				return err
			}
		}
	}
	return nil
}

// emitCFGEdges emits the intra-block consecutive-statement edges and the
// inter-block (last statement, successor's first node) edges for bb,
// including for blocks with zero statements (spec.md §4.4).
func (e *Emitter) emitCFGEdges(bb *ir.BasicBlock, b *Bundle) {
	n := len(bb.Statements)
	for i := 1; i < n; i++ {
		b.cfgEdge(ir.NodeAt(bb.Name, i-1), ir.NodeAt(bb.Name, i))
	}

	last := n - 1
	if last < 0 {
		last = 0
	}
	for _, succ := range bb.Successors {
		b.cfgEdge(ir.NodeAt(bb.Name, last), ir.NodeAt(succ, 0))
	}
}

// emitExpr recursively emits the facts an expression contributes at node,
// per spec.md §4.4's "expression facts".
func (e *Emitter) emitExpr(expr ir.Expr, node ir.Node, span ir.Span, b *Bundle) error {
	switch x := expr.(type) {
	case ir.Access:
		switch kind := x.Kind.(type) {
		case ir.Borrow:
			b.clearOrigin(kind.Origin, node)

		case ir.BorrowMut:
			b.clearOrigin(kind.Origin, node)

			// A mutable reborrow writes through the borrowed place, so it
			// invalidates any outstanding loan it conflicts with (spec.md
			// §4.4).
			access := invalidate.Access{Place: x.Place, Rw: invalidate.Write, Depth: invalidate.Deep}
			for _, loan := range e.loanIdx.All() {
				if invalidate.Invalidates(access, invalidate.LoanOf(loan)) {
					b.invalidateOrigin(loan.Origin, node)
				}
			}

			// Resolved decision (spec.md §9): a mutable borrow also reads
			// the origins already present in the borrowed place's type,
			// matching the read-deep model applied to Copy/Move.
			res, err := e.resolver.Resolve(x.Place, span)
			if err != nil {
				return err
			}
			for _, o := range res.Origins {
				b.accessOrigin(o, node)
			}

		case ir.Copy, ir.Move:
			res, err := e.resolver.Resolve(x.Place, span)
			if err != nil {
				return err
			}
			for _, o := range res.Origins {
				b.accessOrigin(o, node)
			}
		}

	case ir.Call:
		for _, arg := range x.Arguments {
			if err := e.emitExpr(arg, node, span, b); err != nil {
				return err
			}
		}

	case ir.Number, ir.Unit:
		// No facts.
	}
	return nil
}

// emitAssignLHS emits the facts an assignment's left-hand side contributes:
// clearing every origin reachable through its type, invalidating any loan
// the shallow write conflicts with, and introducing subsets between the RHS
// and LHS origin positions (spec.md §4.4's "assignment LHS facts").
func (e *Emitter) emitAssignLHS(lhs ir.Place, rhs ir.Expr, node ir.Node, span ir.Span, b *Bundle) error {
	lhsRes, err := e.resolver.Resolve(lhs, span)
	if err != nil {
		return err
	}

	for _, o := range lhsRes.Origins {
		b.clearOrigin(o, node)
	}

	access := invalidate.FromAssignmentLHS(lhs)
	for _, loan := range e.loanIdx.All() {
		if invalidate.Invalidates(access, invalidate.LoanOf(loan)) {
			b.invalidateOrigin(loan.Origin, node)
		}
	}

	rhsTy, err := e.rhsType(rhs, span)
	if err != nil {
		return err
	}
	if rhsTy == nil {
		return nil
	}
	return e.emitSubsets(lhsRes.Ty, rhsTy, node, false, span, b)
}

// rhsType computes the type an expression produces, to the extent needed for
// subset introduction: a borrow synthesizes the corresponding reference type
// around the borrowed place's resolved type; Copy/Move carry the borrowed
// place's resolved type directly. Number, Unit and Call expressions carry no
// usable type here (spec.md §9: no subset is introduced across calls), and
// rhsType returns nil for them.
func (e *Emitter) rhsType(expr ir.Expr, span ir.Span) (ir.Ty, error) {
	access, ok := expr.(ir.Access)
	if !ok {
		return nil, nil
	}

	res, err := e.resolver.Resolve(access.Place, span)
	if err != nil {
		return nil, err
	}

	switch kind := access.Kind.(type) {
	case ir.Borrow:
		return ir.Ref{Origin: kind.Origin, Target: res.Ty}, nil
	case ir.BorrowMut:
		return ir.RefMut{Origin: kind.Origin, Target: res.Ty}, nil
	case ir.Copy, ir.Move:
		return res.Ty, nil
	default:
		return nil, nil
	}
}

// emitSubsets recurses structurally over matching lhsTy/rhsTy positions,
// emitting introduce_subset(src, target, node) for each corresponding origin
// pair. invariant tracks whether an ancestor RefMut has forced invariance on
// this position: a Ref under invariant mode also emits the reverse pair and
// stays invariant for its descendants; a RefMut emits the covariant pair for
// itself (plus the reverse pair when already invariant) and forces
// invariant=true for everything beneath it, regardless of invariant on entry
// (spec.md §4.4's variance rule).
func (e *Emitter) emitSubsets(lhsTy, rhsTy ir.Ty, node ir.Node, invariant bool, span ir.Span, b *Bundle) error {
	switch lt := lhsTy.(type) {
	case ir.Ref:
		rt, ok := rhsTy.(ir.Ref)
		if !ok {
			return shapeMismatch(span, "expected a shared reference type on the right-hand side, found %T", rhsTy)
		}
		b.introduceSubset(rt.Origin, lt.Origin, node)
		if invariant {
			b.introduceSubset(lt.Origin, rt.Origin, node)
		}
		return e.emitSubsets(lt.Target, rt.Target, node, invariant, span, b)

	case ir.RefMut:
		rt, ok := rhsTy.(ir.RefMut)
		if !ok {
			return shapeMismatch(span, "expected a unique reference type on the right-hand side, found %T", rhsTy)
		}
		b.introduceSubset(rt.Origin, lt.Origin, node)
		if invariant {
			b.introduceSubset(lt.Origin, rt.Origin, node)
		}
		return e.emitSubsets(lt.Target, rt.Target, node, true, span, b)

	case ir.Struct:
		rt, ok := rhsTy.(ir.Struct)
		if !ok {
			return shapeMismatch(span, "expected struct type %q on the right-hand side, found %T", lt.Name, rhsTy)
		}
		if len(lt.Parameters) != len(rt.Parameters) {
			return shapeMismatch(span, "struct %q: left and right-hand sides have %d and %d generic parameters respectively",
				lt.Name, len(lt.Parameters), len(rt.Parameters))
		}
		for i, lp := range lt.Parameters {
			switch lp := lp.(type) {
			case ir.ParamOrigin:
				rp, ok := rt.Parameters[i].(ir.ParamOrigin)
				if !ok {
					return shapeMismatch(span, "struct %q: parameter %d is an origin on the left-hand side but not the right", lt.Name, i)
				}
				b.introduceSubset(rp.Name, lp.Name, node)
				if invariant {
					b.introduceSubset(lp.Name, rp.Name, node)
				}
			case ir.ParamTy:
				rp, ok := rt.Parameters[i].(ir.ParamTy)
				if !ok {
					return shapeMismatch(span, "struct %q: parameter %d is a type on the left-hand side but not the right", lt.Name, i)
				}
				if err := e.emitSubsets(lp.Ty, rp.Ty, node, invariant, span, b); err != nil {
					return err
				}
			}
		}
		return nil

	default:
		// I32 / Unit: no origins to relate.
		return nil
	}
}
