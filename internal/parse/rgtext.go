package parse

import (
	"bytes"
	"strconv"

	"github.com/usestring/fd-mcp/pkg/types"
)

// blockSeparator is printed by ripgrep between non-contiguous context groups.
var blockSeparator = []byte("--")

// RipgrepText parses ripgrep's line output produced with --null
// --with-filename --line-number. Match lines look like "path\x00N:text" and
// context lines like "path\x00N-text".
type RipgrepText struct {
	ContextLines int
}

var _ Parser[types.ContentMatch] = RipgrepText{}

// Parse implements Parser.
func (p RipgrepText) Parse(stdout []byte) Result[types.ContentMatch] {
	g := grouper{context: max(p.ContextLines, 0)}
	skipped := 0

	for line := range lines(stdout) {
		if len(line) == 0 {
			continue
		}
		if bytes.Equal(line, blockSeparator) {
			g.flush()
			continue
		}
		l, ok := parseTextLine(line)
		if !ok {
			skipped++
			continue
		}
		g.add(l)
	}

	return Result[types.ContentMatch]{Records: g.records(), Skipped: skipped}
}

func parseTextLine(line []byte) (rgLine, bool) {
	nul := bytes.IndexByte(line, 0)
	if nul <= 0 {
		return rgLine{}, false
	}
	path, rest := line[:nul], line[nul+1:]

	digits := 0
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	if digits == 0 || digits == len(rest) {
		return rgLine{}, false
	}
	num, err := strconv.Atoi(string(rest[:digits]))
	if err != nil {
		return rgLine{}, false
	}

	var match bool
	switch rest[digits] {
	case ':':
		match = true
	case '-':
		match = false
	default:
		return rgLine{}, false
	}

	return rgLine{
		path:  string(path),
		num:   num,
		text:  string(rest[digits+1:]),
		match: match,
	}, true
}
