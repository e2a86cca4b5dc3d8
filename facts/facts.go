// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package facts implements the fact emitter: it walks a program's CFG and
// produces the five relations spec.md §6 defines (cfg_edge, access_origin,
// clear_origin, invalidate_origin, introduce_subset), plus the auxiliary
// node_text relation, as an append-only Bundle.
package facts

import "github.com/originflow/factgen/ir"

// AccessOriginRow is one row of the access_origin relation: origin o is
// read-accessed at node n.
type AccessOriginRow struct {
	Origin ir.Name
	Node   ir.Node
}

// ClearOriginRow is one row of the clear_origin relation: origin o's prior
// contents do not flow past node n.
type ClearOriginRow struct {
	Origin ir.Name
	Node   ir.Node
}

// InvalidateOriginRow is one row of the invalidate_origin relation: the loan
// identified by origin o is illegal to use beyond node n.
type InvalidateOriginRow struct {
	Origin ir.Name
	Node   ir.Node
}

// IntroduceSubsetRow is one row of the introduce_subset relation: source
// must be live wherever target is, as of node n.
type IntroduceSubsetRow struct {
	Source ir.Name
	Target ir.Name
	Node   ir.Node
}

// CFGEdgeRow is one row of the cfg_edge relation: control may flow from From
// to To.
type CFGEdgeRow struct {
	From ir.Node
	To   ir.Node
}

// NodeTextRow is one row of the auxiliary node_text relation: a best-effort
// mapping from node to its original source text, for diagnostics.
type NodeTextRow struct {
	Node ir.Node
	Text string
}

// Bundle is the five relations plus node_text, stored as ordered,
// append-only sequences of tuples. Facts within a relation appear in the
// order produced by the block-then-statement-then-expression-subtree
// traversal, which is deterministic given a deterministic program value
// (spec.md §5).
type Bundle struct {
	CFGEdge          []CFGEdgeRow
	AccessOrigin     []AccessOriginRow
	ClearOrigin      []ClearOriginRow
	InvalidateOrigin []InvalidateOriginRow
	IntroduceSubset  []IntroduceSubsetRow
	NodeText         []NodeTextRow
}

func (b *Bundle) cfgEdge(from, to ir.Node) {
	b.CFGEdge = append(b.CFGEdge, CFGEdgeRow{From: from, To: to})
}

func (b *Bundle) accessOrigin(o ir.Name, n ir.Node) {
	b.AccessOrigin = append(b.AccessOrigin, AccessOriginRow{Origin: o, Node: n})
}

func (b *Bundle) clearOrigin(o ir.Name, n ir.Node) {
	b.ClearOrigin = append(b.ClearOrigin, ClearOriginRow{Origin: o, Node: n})
}

func (b *Bundle) invalidateOrigin(o ir.Name, n ir.Node) {
	b.InvalidateOrigin = append(b.InvalidateOrigin, InvalidateOriginRow{Origin: o, Node: n})
}

func (b *Bundle) introduceSubset(source, target ir.Name, n ir.Node) {
	b.IntroduceSubset = append(b.IntroduceSubset, IntroduceSubsetRow{Source: source, Target: target, Node: n})
}

// AddNodeText records a best-effort mapping from node to source text, e.g. as
// produced by the parser. It is not required for emission; callers that
// have source text may set entries themselves after emission, or a parser
// may populate it as it builds the IR.
func (b *Bundle) AddNodeText(n ir.Node, text string) {
	b.NodeText = append(b.NodeText, NodeTextRow{Node: n, Text: text})
}
