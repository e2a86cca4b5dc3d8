// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package facts

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/originflow/factgen/ir"
)

// relation bundles a fixed relation name with the rows it will render, so
// WriteFactsDir can iterate them uniformly.
type relation struct {
	name string
	rows []string
}

// WriteFactsDir renders b as one tab-separated ".facts" file per relation
// (plus node_text), one file per relation, written through open. open is
// called once per relation name (e.g. "access_origin.facts") and must
// return a writer that Close-ready callers close themselves; WriteFactsDir
// never closes what open returns, matching the low-ceremony style of an I/O
// seam meant to be driven by a caller-supplied directory or in-memory sink.
func (b *Bundle) WriteFactsDir(open func(relationFile string) (io.Writer, error)) error {
	for _, rel := range b.relations() {
		w, err := open(rel.name + ".facts")
		if err != nil {
			return fmt.Errorf("opening %s.facts: %w", rel.name, err)
		}
		for _, row := range rel.rows {
			if _, err := io.WriteString(w, row+"\n"); err != nil {
				return fmt.Errorf("writing %s.facts: %w", rel.name, err)
			}
		}
	}
	return nil
}

func (b *Bundle) relations() []relation {
	accessOrigin := make([]string, len(b.AccessOrigin))
	for i, r := range b.AccessOrigin {
		accessOrigin[i] = tabJoin(r.Origin, r.Node.String())
	}
	clearOrigin := make([]string, len(b.ClearOrigin))
	for i, r := range b.ClearOrigin {
		clearOrigin[i] = tabJoin(r.Origin, r.Node.String())
	}
	invalidateOrigin := make([]string, len(b.InvalidateOrigin))
	for i, r := range b.InvalidateOrigin {
		invalidateOrigin[i] = tabJoin(r.Origin, r.Node.String())
	}
	introduceSubset := make([]string, len(b.IntroduceSubset))
	for i, r := range b.IntroduceSubset {
		introduceSubset[i] = tabJoin(r.Source, r.Target, r.Node.String())
	}
	cfgEdge := make([]string, len(b.CFGEdge))
	for i, r := range b.CFGEdge {
		cfgEdge[i] = tabJoin(r.From.String(), r.To.String())
	}
	nodeText := make([]string, len(b.NodeText))
	for i, r := range b.NodeText {
		nodeText[i] = tabJoin(r.Text, r.Node.String())
	}

	return []relation{
		{"cfg_edge", cfgEdge},
		{"access_origin", accessOrigin},
		{"clear_origin", clearOrigin},
		{"invalidate_origin", invalidateOrigin},
		{"introduce_subset", introduceSubset},
		{"node_text", nodeText},
	}
}

func tabJoin(fields ...string) string {
	return strings.Join(fields, "\t")
}

// GroupedText renders b in the "grouped by node" form of spec.md §6: nodes
// sorted lexically, each node's facts preceding its trailing goto line.
func (b *Bundle) GroupedText() string {
	type nodeFacts struct {
		facts []string
		gotos []string
	}
	byNode := make(map[string]*nodeFacts)

	get := func(n ir.Node) *nodeFacts {
		key := n.String()
		nf, ok := byNode[key]
		if !ok {
			nf = &nodeFacts{}
			byNode[key] = nf
		}
		return nf
	}

	for _, r := range b.AccessOrigin {
		nf := get(r.Node)
		nf.facts = append(nf.facts, fmt.Sprintf("access_origin(%s)", r.Origin))
	}
	for _, r := range b.ClearOrigin {
		nf := get(r.Node)
		nf.facts = append(nf.facts, fmt.Sprintf("clear_origin(%s)", r.Origin))
	}
	for _, r := range b.InvalidateOrigin {
		nf := get(r.Node)
		nf.facts = append(nf.facts, fmt.Sprintf("invalidate_origin(%s)", r.Origin))
	}
	for _, r := range b.IntroduceSubset {
		nf := get(r.Node)
		nf.facts = append(nf.facts, fmt.Sprintf("introduce_subset(%s, %s)", r.Source, r.Target))
	}
	for _, r := range b.CFGEdge {
		nf := get(r.From)
		nf.gotos = append(nf.gotos, r.To.String())
		get(r.To)
	}
	// Ensure every node that appears anywhere (even with no local facts or
	// successors, e.g. the empty-block boundary case) still renders.
	for _, r := range b.NodeText {
		get(r.Node)
	}

	keys := make([]string, 0, len(byNode))
	for k := range byNode {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out strings.Builder
	for _, k := range keys {
		nf := byNode[k]
		fmt.Fprintf(&out, "%s: {\n", k)
		for _, f := range nf.facts {
			fmt.Fprintf(&out, "\t%s\n", f)
		}
		if len(nf.gotos) > 0 {
			fmt.Fprintf(&out, "\tgoto %s\n", strings.Join(nf.gotos, ", "))
		}
		out.WriteString("}\n")
	}
	return out.String()
}
