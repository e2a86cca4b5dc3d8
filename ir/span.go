// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import "fmt"

// Span is an opaque byte range in the original source text. It is preserved
// through parsing for diagnostics but carries no semantic weight: nothing in
// the place resolver or the fact emitter inspects it.
type Span struct {
	Offset int
	Length int
}

func (s Span) String() string {
	return fmt.Sprintf("offset %d, length %d", s.Offset, s.Length)
}
