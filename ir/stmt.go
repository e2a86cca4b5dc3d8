// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import "fmt"

// Statement is the tagged-variant type of a single IR statement, tagged with
// its source span for diagnostics.
type Statement struct {
	Span Span
	Kind StatementKind
}

// StatementKind distinguishes an assignment from a bare expression
// evaluation.
type StatementKind interface{ isStatementKind() }

// Assign is `place = expr;`.
type Assign struct {
	Place Place
	Expr  Expr
}

// ExprStmt is a bare expression evaluation, `expr;`. (Earlier iterations of this
// IR spelled this "Drop"; this one does not give it special drop semantics.)
type ExprStmt struct {
	Expr Expr
}

func (Assign) isStatementKind()    {}
func (ExprStmt) isStatementKind()  {}

// BasicBlock is a name, an ordered list of statements, and an ordered list
// of successor block names. A block may have zero or more successors.
type BasicBlock struct {
	Name        Name
	Statements  []Statement
	Successors  []Name
}

// Node identifies a program point: a basic block name and a statement
// index within it. Empty blocks still expose node block[0] for CFG
// connectivity.
type Node struct {
	Block Name
	Index int
}

func (n Node) String() string {
	return fmt.Sprintf("%s[%d]", n.Block, n.Index)
}

// NodeAt builds the node for the idx'th statement of block.
func NodeAt(block Name, idx int) Node {
	return Node{Block: block, Index: idx}
}
