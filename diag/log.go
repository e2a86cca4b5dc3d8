// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diag carries diagnostics accumulated while processing a program,
// such as file-read, parse and resolution failures. Every entry has a
// severity, mirroring the
// INFO/WARNING/ERROR/FATAL_ERROR model used elsewhere in the corpus for
// refactoring diagnostics.
package diag

import (
	"bytes"
	"fmt"

	"github.com/originflow/factgen/ir"
)

// Severity classifies a diagnostic entry.
type Severity int

const (
	INFO Severity = iota
	WARNING
	ERROR
	FATAL_ERROR
)

func (s Severity) String() string {
	switch s {
	case INFO:
		return ""
	case WARNING:
		return "Warning: "
	case ERROR:
		return "Error: "
	case FATAL_ERROR:
		return "ERROR: "
	default:
		return ""
	}
}

// Entry is a single diagnostic: a severity, a message, and an optional
// source file and span. File is empty for diagnostics not tied to a
// particular input (e.g. a batch-level summary).
type Entry struct {
	Severity Severity
	Message  string
	File     string
	Span     ir.Span
}

func (e Entry) String() string {
	var buf bytes.Buffer
	buf.WriteString(e.Severity.String())
	if e.File != "" {
		fmt.Fprintf(&buf, "%s, %s: ", e.File, e.Span)
	}
	buf.WriteString(e.Message)
	return buf.String()
}

// Log accumulates diagnostic entries in the order they were reported.
type Log struct {
	Entries []Entry
}

// NewLog returns a new, empty Log.
func NewLog() *Log {
	return &Log{}
}

// Report appends an entry with the given severity.
func (l *Log) Report(severity Severity, file string, span ir.Span, format string, args ...any) {
	l.Entries = append(l.Entries, Entry{
		Severity: severity,
		Message:  fmt.Sprintf(format, args...),
		File:     file,
		Span:     span,
	})
}

// ContainsErrors reports whether the log has at least one ERROR or
// FATAL_ERROR entry.
func (l *Log) ContainsErrors() bool {
	for _, e := range l.Entries {
		if e.Severity >= ERROR {
			return true
		}
	}
	return false
}

func (l *Log) String() string {
	var buf bytes.Buffer
	for _, e := range l.Entries {
		buf.WriteString(e.String())
		buf.WriteString("\n")
	}
	return buf.String()
}
