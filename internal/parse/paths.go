package parse

import (
	"bytes"
	"path/filepath"

	"github.com/usestring/fd-mcp/pkg/types"
)

// Paths parses fd output: one path per line.
type Paths struct{}

var _ Parser[types.MatchRecord] = Paths{}

// Parse implements Parser.
func (Paths) Parse(stdout []byte) Result[types.MatchRecord] {
	var res Result[types.MatchRecord]
	for line := range lines(stdout) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		// fd never prints NUL in newline mode; a NUL means the stream is not
		// what we asked for.
		if bytes.IndexByte(line, 0) >= 0 {
			res.Skipped++
			continue
		}
		p := string(line)
		res.Records = append(res.Records, types.MatchRecord{
			Path:       p,
			IsAbsolute: filepath.IsAbs(p),
		})
	}
	return res
}

// CountLines counts non-blank lines without keeping them. It is the
// count operation's parser. Lines Paths would skip are reported as skipped.
func CountLines(stdout []byte) (n, skipped int) {
	for line := range lines(stdout) {
		switch {
		case len(bytes.TrimSpace(line)) == 0:
		case bytes.IndexByte(line, 0) >= 0:
			skipped++
		default:
			n++
		}
	}
	return n, skipped
}
