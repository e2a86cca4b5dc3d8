// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolve implements place resolution: given a place (a base
// variable plus a projection path), compute the type of the place after
// following field lookups (with generic struct substitution) and derefs,
// and the ordered list of origins encountered along the way.
package resolve

import (
	"fmt"

	"github.com/originflow/factgen/ir"
)

// Kind enumerates the taxonomy of resolution failures from spec.md §7.
type Kind int

const (
	UnknownVariable Kind = iota
	UnknownStruct
	UnknownField
	FieldOnNonStruct
	DerefOnNonRef
	KindMismatch
	GenericOriginUnsupported
)

func (k Kind) String() string {
	switch k {
	case UnknownVariable:
		return "unknown variable"
	case UnknownStruct:
		return "unknown struct"
	case UnknownField:
		return "unknown field"
	case FieldOnNonStruct:
		return "field projection on non-struct type"
	case DerefOnNonRef:
		return "deref projection on non-reference type"
	case KindMismatch:
		return "generic parameter kind mismatch"
	case GenericOriginUnsupported:
		return "generic origin substitution is not implemented"
	default:
		return "unknown resolution error"
	}
}

// Error is a resolution failure, always fatal for the current emission
// (spec.md §7). It carries the span of the statement that triggered it.
type Error struct {
	Kind    Kind
	Message string
	Span    ir.Span
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Span)
}

func newError(kind Kind, span ir.Span, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Span: span}
}

// Resolver resolves places against a fixed program's declarations.
type Resolver struct {
	program *ir.Program
}

// New returns a Resolver bound to program. The program is read-only for the
// lifetime of the Resolver.
func New(program *ir.Program) *Resolver {
	return &Resolver{program: program}
}

// Result is the outcome of resolving a place: its type after following all
// projections, and the ordered list of origins encountered. Outermost
// origins appear first; the traversal is pre-order, and this order is
// observable by downstream tests (spec.md §4.1).
type Result struct {
	Ty      ir.Ty
	Origins []ir.Name
}

// Resolve computes the type and origin-set of place, per spec.md §4.1. span
// is attached to any resulting error for diagnostics.
func (r *Resolver) Resolve(place ir.Place, span ir.Span) (Result, error) {
	decl := r.program.Variable(place.Base)
	if decl == nil {
		return Result{}, newError(UnknownVariable, span, "no such variable %q", place.Base)
	}

	ty := decl.Ty
	var origins []ir.Name

	for _, proj := range place.Projections {
		switch p := proj.(type) {
		case ir.Field:
			next, err := r.stepField(ty, p.Name, span, &origins)
			if err != nil {
				return Result{}, err
			}
			ty = next

		case ir.Deref:
			next, err := r.stepDeref(ty, span, &origins)
			if err != nil {
				return Result{}, err
			}
			ty = next

		default:
			return Result{}, newError(KindMismatch, span, "unrecognized projection %T", proj)
		}
	}

	origins = append(origins, collectOrigins(ty)...)
	return Result{Ty: ty, Origins: origins}, nil
}

// stepField advances ty through a Field(name) projection, appending the
// parent layer's origins to *origins before descending, as required by
// spec.md §4.1.
func (r *Resolver) stepField(ty ir.Ty, name ir.Name, span ir.Span, origins *[]ir.Name) (ir.Ty, error) {
	st, ok := ty.(ir.Struct)
	if !ok {
		return nil, newError(FieldOnNonStruct, span, "cannot project field %q from non-struct type %T", name, ty)
	}

	*origins = append(*origins, collectOrigins(st)...)

	decl := r.program.Struct(st.Name)
	if decl == nil {
		return nil, newError(UnknownStruct, span, "no such struct %q", st.Name)
	}

	field := decl.Field(name)
	if field == nil {
		return nil, newError(UnknownField, span, "struct %q has no field %q", st.Name, name)
	}

	return r.substitute(field.Ty, decl, st.Parameters, span)
}

// substitute resolves a field's declared type against the struct's generic
// declarations and the concrete parameters supplied at the place's type,
// per spec.md §4.1's field-type substitution rule.
func (r *Resolver) substitute(fieldTy ir.Ty, decl *ir.StructDecl, params []ir.Parameter, span ir.Span) (ir.Ty, error) {
	// A field type that mentions one of the struct's generic origin
	// parameters would need origin substitution, which is not implemented.
	for _, o := range collectOrigins(fieldTy) {
		for _, g := range decl.GenericDecls {
			if g, isOrigin := g.(ir.GenericOrigin); isOrigin && g.Name == o {
				return nil, newError(GenericOriginUnsupported, span,
					"field type references generic origin parameter %q of struct %q; "+
						"generic-origin substitution is not implemented", o, decl.Name)
			}
		}
	}

	fieldStruct, ok := fieldTy.(ir.Struct)
	if !ok {
		// The field's declared type is not itself a bare generic-type
		// name; used verbatim.
		return fieldTy, nil
	}

	// A generic type parameter is referenced directly as `Struct{name, []}`
	// per spec.md §4.1: no parameters of its own, its name matching a
	// GenericDecl::Ty at some position.
	if len(fieldStruct.Parameters) != 0 {
		return fieldTy, nil
	}

	idx, ok := decl.GenericIndex(fieldStruct.Name)
	if !ok {
		// Either not a generic name at all, or it names a generic
		// *origin* parameter instead of a type parameter. Distinguish
		// the two so we report the right failure.
		for _, g := range decl.GenericDecls {
			if go_, isOrigin := g.(ir.GenericOrigin); isOrigin && go_.Name == fieldStruct.Name {
				return nil, newError(GenericOriginUnsupported, span,
					"field type references generic origin parameter %q of struct %q; "+
						"generic-origin substitution is not implemented", fieldStruct.Name, decl.Name)
			}
		}
		return fieldTy, nil
	}

	if idx >= len(params) {
		return nil, newError(KindMismatch, span,
			"struct %q instantiated with %d parameters but generic %q is at position %d",
			decl.Name, len(params), fieldStruct.Name, idx)
	}

	p, ok := params[idx].(ir.ParamTy)
	if !ok {
		return nil, newError(KindMismatch, span,
			"parameter at position %d of struct %q must be a type, not an origin", idx, decl.Name)
	}
	return p.Ty, nil
}

// stepDeref advances ty through a Deref projection, appending the
// reference's own origin to *origins before descending.
func (r *Resolver) stepDeref(ty ir.Ty, span ir.Span, origins *[]ir.Name) (ir.Ty, error) {
	switch t := ty.(type) {
	case ir.Ref:
		*origins = append(*origins, t.Origin)
		return t.Target, nil
	case ir.RefMut:
		*origins = append(*origins, t.Origin)
		return t.Target, nil
	default:
		return nil, newError(DerefOnNonRef, span, "cannot deref non-reference type %T", ty)
	}
}

// collectOrigins walks ty pre-order, returning every origin reachable
// through it: Ref/RefMut contribute their own origin and recurse into their
// target; Struct recurses into each parameter, contributing
// ParamOrigin entries directly and recursing into ParamTy entries; I32 and
// Unit contribute nothing. Outermost origins appear first.
func collectOrigins(ty ir.Ty) []ir.Name {
	var origins []ir.Name
	switch t := ty.(type) {
	case ir.Ref:
		origins = append(origins, t.Origin)
		origins = append(origins, collectOrigins(t.Target)...)
	case ir.RefMut:
		origins = append(origins, t.Origin)
		origins = append(origins, collectOrigins(t.Target)...)
	case ir.Struct:
		for _, p := range t.Parameters {
			switch p := p.(type) {
			case ir.ParamOrigin:
				origins = append(origins, p.Name)
			case ir.ParamTy:
				origins = append(origins, collectOrigins(p.Ty)...)
			}
		}
	}
	return origins
}
