// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parse

import (
	"fmt"

	"github.com/originflow/factgen/ir"
)

// Error is a parse failure, carrying the offending span.
type Error struct {
	Message string
	Span    ir.Span
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error: %s (%s)", e.Message, e.Span)
}

type parser struct {
	lex  *lexer
	cur  token
	prog ir.Program
}

// Program parses src (the concrete syntax of spec.md §6) into an ir.Program.
func Program(src string) (*ir.Program, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	for p.cur.kind != tokEOF {
		if err := p.topLevelItem(); err != nil {
			return nil, err
		}
	}
	return &p.prog, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		if le, ok := err.(*lexError); ok {
			return &Error{Message: le.msg, Span: le.span}
		}
		return err
	}
	p.cur = tok
	return nil
}

func (p *parser) errf(format string, args ...any) error {
	return &Error{Message: fmt.Sprintf(format, args...), Span: p.cur.span}
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	if p.cur.kind != kind {
		return token{}, p.errf("expected %s, found %q", what, p.cur.text)
	}
	t := p.cur
	if err := p.advance(); err != nil {
		return token{}, err
	}
	return t, nil
}

func (p *parser) expectKeyword(kw string) error {
	if p.cur.kind != tokKeyword || p.cur.text != kw {
		return p.errf("expected keyword %q, found %q", kw, p.cur.text)
	}
	return p.advance()
}

func (p *parser) isKeyword(kw string) bool {
	return p.cur.kind == tokKeyword && p.cur.text == kw
}

func (p *parser) topLevelItem() error {
	switch {
	case p.isKeyword("let"):
		decl, err := p.varDecl()
		if err != nil {
			return err
		}
		p.prog.Variables = append(p.prog.Variables, decl)
		return nil

	case p.isKeyword("struct"):
		decl, err := p.structDecl()
		if err != nil {
			return err
		}
		p.prog.StructDecls = append(p.prog.StructDecls, decl)
		return nil

	case p.isKeyword("fn"):
		proto, err := p.fnPrototype()
		if err != nil {
			return err
		}
		p.prog.FnPrototypes = append(p.prog.FnPrototypes, proto)
		return nil

	case p.cur.kind == tokIdent:
		bb, err := p.basicBlock()
		if err != nil {
			return err
		}
		p.prog.BasicBlocks = append(p.prog.BasicBlocks, bb)
		return nil

	default:
		return p.errf("expected a declaration or basic block, found %q", p.cur.text)
	}
}

func (p *parser) varDecl() (ir.VariableDecl, error) {
	if err := p.expectKeyword("let"); err != nil {
		return ir.VariableDecl{}, err
	}
	name, err := p.expect(tokIdent, "identifier")
	if err != nil {
		return ir.VariableDecl{}, err
	}
	if _, err := p.expect(tokColon, "':'"); err != nil {
		return ir.VariableDecl{}, err
	}
	ty, err := p.ty()
	if err != nil {
		return ir.VariableDecl{}, err
	}
	if _, err := p.expect(tokSemi, "';'"); err != nil {
		return ir.VariableDecl{}, err
	}
	return ir.VariableDecl{Name: name.text, Ty: ty}, nil
}

func (p *parser) structDecl() (ir.StructDecl, error) {
	if err := p.expectKeyword("struct"); err != nil {
		return ir.StructDecl{}, err
	}
	name, err := p.expect(tokIdent, "identifier")
	if err != nil {
		return ir.StructDecl{}, err
	}
	generics, err := p.genericDecls()
	if err != nil {
		return ir.StructDecl{}, err
	}
	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return ir.StructDecl{}, err
	}
	var fields []ir.VariableDecl
	for p.cur.kind != tokRBrace {
		fname, err := p.expect(tokIdent, "field name")
		if err != nil {
			return ir.StructDecl{}, err
		}
		if _, err := p.expect(tokColon, "':'"); err != nil {
			return ir.StructDecl{}, err
		}
		fty, err := p.ty()
		if err != nil {
			return ir.StructDecl{}, err
		}
		fields = append(fields, ir.VariableDecl{Name: fname.text, Ty: fty})
		if p.cur.kind == tokComma {
			if err := p.advance(); err != nil {
				return ir.StructDecl{}, err
			}
		}
	}
	if _, err := p.expect(tokRBrace, "'}'"); err != nil {
		return ir.StructDecl{}, err
	}
	return ir.StructDecl{Name: name.text, GenericDecls: generics, FieldDecls: fields}, nil
}

func (p *parser) fnPrototype() (ir.FnPrototype, error) {
	if err := p.expectKeyword("fn"); err != nil {
		return ir.FnPrototype{}, err
	}
	name, err := p.expect(tokIdent, "identifier")
	if err != nil {
		return ir.FnPrototype{}, err
	}
	generics, err := p.genericDecls()
	if err != nil {
		return ir.FnPrototype{}, err
	}
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return ir.FnPrototype{}, err
	}
	var argTys []ir.Ty
	for p.cur.kind != tokRParen {
		if _, err := p.expect(tokIdent, "argument name"); err != nil {
			return ir.FnPrototype{}, err
		}
		if _, err := p.expect(tokColon, "':'"); err != nil {
			return ir.FnPrototype{}, err
		}
		argTy, err := p.ty()
		if err != nil {
			return ir.FnPrototype{}, err
		}
		argTys = append(argTys, argTy)
		if p.cur.kind == tokComma {
			if err := p.advance(); err != nil {
				return ir.FnPrototype{}, err
			}
		}
	}
	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return ir.FnPrototype{}, err
	}
	if _, err := p.expect(tokArrow, "'->'"); err != nil {
		return ir.FnPrototype{}, err
	}
	retTy, err := p.ty()
	if err != nil {
		return ir.FnPrototype{}, err
	}
	if _, err := p.expect(tokSemi, "';'"); err != nil {
		return ir.FnPrototype{}, err
	}
	return ir.FnPrototype{Name: name.text, GenericDecls: generics, ArgTys: argTys, RetTy: retTy}, nil
}

// genericDecls parses an optional `<'a, T, ...>` generic declaration list.
func (p *parser) genericDecls() ([]ir.GenericDecl, error) {
	if p.cur.kind != tokLAngle {
		return nil, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	var decls []ir.GenericDecl
	for p.cur.kind != tokRAngle {
		switch {
		case p.cur.kind == tokOrigin:
			decls = append(decls, ir.GenericOrigin{Name: p.cur.text})
			if err := p.advance(); err != nil {
				return nil, err
			}
		case p.cur.kind == tokIdent:
			decls = append(decls, ir.GenericTy{Name: p.cur.text})
			if err := p.advance(); err != nil {
				return nil, err
			}
		default:
			return nil, p.errf("expected a generic origin or type parameter, found %q", p.cur.text)
		}
		if p.cur.kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(tokRAngle, "'>'"); err != nil {
		return nil, err
	}
	return decls, nil
}

func (p *parser) basicBlock() (ir.BasicBlock, error) {
	name, err := p.expect(tokIdent, "block name")
	if err != nil {
		return ir.BasicBlock{}, err
	}
	if _, err := p.expect(tokColon, "':'"); err != nil {
		return ir.BasicBlock{}, err
	}
	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return ir.BasicBlock{}, err
	}

	var stmts []ir.Statement
	for !p.isKeyword("goto") && p.cur.kind != tokRBrace {
		stmt, err := p.statement()
		if err != nil {
			return ir.BasicBlock{}, err
		}
		stmts = append(stmts, stmt)
	}

	var successors []ir.Name
	if p.isKeyword("goto") {
		if err := p.advance(); err != nil {
			return ir.BasicBlock{}, err
		}
		for p.cur.kind != tokSemi {
			succ, err := p.expect(tokIdent, "successor block name")
			if err != nil {
				return ir.BasicBlock{}, err
			}
			successors = append(successors, succ.text)
			if p.cur.kind == tokComma {
				if err := p.advance(); err != nil {
					return ir.BasicBlock{}, err
				}
			}
		}
		if _, err := p.expect(tokSemi, "';'"); err != nil {
			return ir.BasicBlock{}, err
		}
	}

	if _, err := p.expect(tokRBrace, "'}'"); err != nil {
		return ir.BasicBlock{}, err
	}
	return ir.BasicBlock{Name: name.text, Statements: stmts, Successors: successors}, nil
}

func (p *parser) statement() (ir.Statement, error) {
	start := p.cur.span

	// A statement is either `place = expr;` or `expr;`. Both can begin with
	// an identifier, so when one leads, speculatively parse a place and
	// check for `=`.
	if p.cur.kind == tokIdent {
		save := *p.lex
		saveCur := p.cur

		place, err := p.place()
		if err == nil && p.cur.kind == tokEquals {
			if err := p.advance(); err != nil {
				return ir.Statement{}, err
			}
			expr, err := p.expr()
			if err != nil {
				return ir.Statement{}, err
			}
			if _, err := p.expect(tokSemi, "';'"); err != nil {
				return ir.Statement{}, err
			}
			return ir.Statement{Span: spanTo(start, p.cur.span), Kind: ir.Assign{Place: place, Expr: expr}}, nil
		}

		// Not an assignment: rewind and parse as a bare expression.
		*p.lex = save
		p.cur = saveCur
	}

	expr, err := p.expr()
	if err != nil {
		return ir.Statement{}, err
	}
	if _, err := p.expect(tokSemi, "';'"); err != nil {
		return ir.Statement{}, err
	}
	return ir.Statement{Span: spanTo(start, p.cur.span), Kind: ir.ExprStmt{Expr: expr}}, nil
}

func spanTo(start, end ir.Span) ir.Span {
	length := (end.Offset + end.Length) - start.Offset
	if length < 0 {
		length = 0
	}
	return ir.Span{Offset: start.Offset, Length: length}
}

// place parses `base` followed by zero or more `.field` or `*` projections,
// in textual left-to-right order. Per spec.md §6 ("innermost projection
// leftmost after the base"), that textual order is the projection list's
// order directly: the token immediately after the base is the innermost
// projection.
func (p *parser) place() (ir.Place, error) {
	base, err := p.expect(tokIdent, "place")
	if err != nil {
		return ir.Place{}, err
	}
	place := ir.Place{Base: base.text}
	for {
		switch p.cur.kind {
		case tokDot:
			if err := p.advance(); err != nil {
				return ir.Place{}, err
			}
			field, err := p.expect(tokIdent, "field name")
			if err != nil {
				return ir.Place{}, err
			}
			place.Projections = append(place.Projections, ir.Field{Name: field.text})
		case tokStar:
			if err := p.advance(); err != nil {
				return ir.Place{}, err
			}
			place.Projections = append(place.Projections, ir.Deref{})
		default:
			return place, nil
		}
	}
}

func (p *parser) expr() (ir.Expr, error) {
	switch {
	case p.isKeyword("copy"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		place, err := p.place()
		if err != nil {
			return nil, err
		}
		return ir.Access{Place: place, Kind: ir.Copy{}}, nil

	case p.isKeyword("move"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		place, err := p.place()
		if err != nil {
			return nil, err
		}
		return ir.Access{Place: place, Kind: ir.Move{}}, nil

	case p.cur.kind == tokAmp:
		if err := p.advance(); err != nil {
			return nil, err
		}
		origin, err := p.expect(tokOrigin, "origin")
		if err != nil {
			return nil, err
		}
		mut := false
		if p.isKeyword("mut") {
			mut = true
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		place, err := p.place()
		if err != nil {
			return nil, err
		}
		if mut {
			return ir.Access{Place: place, Kind: ir.BorrowMut{Origin: origin.text}}, nil
		}
		return ir.Access{Place: place, Kind: ir.Borrow{Origin: origin.text}}, nil

	case p.cur.kind == tokNumber:
		text := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		var value int32
		for _, r := range text {
			value = value*10 + int32(r-'0')
		}
		return ir.Number{Value: value}, nil

	case p.cur.kind == tokIdent && p.cur.text == "()":
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ir.Unit{}, nil

	case p.cur.kind == tokIdent:
		name := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokLParen, "'('"); err != nil {
			return nil, err
		}
		var args []ir.Expr
		for p.cur.kind != tokRParen {
			arg, err := p.expr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.cur.kind == tokComma {
				if err := p.advance(); err != nil {
					return nil, err
				}
			}
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return ir.Call{Name: name, Arguments: args}, nil

	default:
		return nil, p.errf("expected an expression, found %q", p.cur.text)
	}
}

func (p *parser) ty() (ir.Ty, error) {
	switch {
	case p.cur.kind == tokAmp:
		if err := p.advance(); err != nil {
			return nil, err
		}
		origin, err := p.expect(tokOrigin, "origin")
		if err != nil {
			return nil, err
		}
		mut := false
		if p.isKeyword("mut") {
			mut = true
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		target, err := p.ty()
		if err != nil {
			return nil, err
		}
		if mut {
			return ir.RefMut{Origin: origin.text, Target: target}, nil
		}
		return ir.Ref{Origin: origin.text, Target: target}, nil

	case p.isKeyword("i32"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ir.I32{}, nil

	case p.cur.kind == tokIdent && p.cur.text == "()":
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ir.UnitTy{}, nil

	case p.cur.kind == tokIdent:
		name := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		params, err := p.parameters()
		if err != nil {
			return nil, err
		}
		return ir.Struct{Name: name, Parameters: params}, nil

	default:
		return nil, p.errf("expected a type, found %q", p.cur.text)
	}
}

func (p *parser) parameters() ([]ir.Parameter, error) {
	if p.cur.kind != tokLAngle {
		return nil, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	var params []ir.Parameter
	for p.cur.kind != tokRAngle {
		if p.cur.kind == tokOrigin {
			params = append(params, ir.ParamOrigin{Name: p.cur.text})
			if err := p.advance(); err != nil {
				return nil, err
			}
		} else {
			ty, err := p.ty()
			if err != nil {
				return nil, err
			}
			params = append(params, ir.ParamTy{Ty: ty})
		}
		if p.cur.kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(tokRAngle, "'>'"); err != nil {
		return nil, err
	}
	return params, nil
}
