// Package parse turns fd and ripgrep stdout into typed records.
//
// Each output grammar has its own Parser. Lines that do not fit the grammar
// are skipped and counted rather than failing the whole parse, so a single odd
// filename cannot hide every other result.
package parse

import (
	"bytes"
	"iter"
)

// Parser converts raw tool output into records of type T.
type Parser[T any] interface {
	Parse(stdout []byte) Result[T]
}

// Result holds parsed records and the number of lines that were skipped
// because they did not match the expected grammar.
type Result[T any] struct {
	Records []T
	Skipped int
}

// lines yields each line of b without its terminator. A trailing "\r" is
// removed so output produced on Windows parses the same way.
func lines(b []byte) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for line := range bytes.Lines(b) {
			line = bytes.TrimSuffix(line, []byte("\n"))
			line = bytes.TrimSuffix(line, []byte("\r"))
			if !yield(line) {
				return
			}
		}
	}
}
