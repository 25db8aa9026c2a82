package parse

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/usestring/fd-mcp/pkg/types"
)

// RipgrepJSON parses ripgrep's --json message stream.
type RipgrepJSON struct {
	ContextLines int
}

var _ Parser[types.ContentMatch] = RipgrepJSON{}

// rgMessage is the envelope of every --json line.
type rgMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// rgData is the payload of begin, match, context and end messages.
type rgData struct {
	Path       rgText `json:"path"`
	Lines      rgText `json:"lines"`
	LineNumber *int   `json:"line_number"`
}

// rgText is ripgrep's arbitrary-data object: UTF-8 as text, anything else as
// base64 bytes.
type rgText struct {
	Text  *string `json:"text"`
	Bytes *string `json:"bytes"`
}

func (t rgText) decode() (string, bool) {
	switch {
	case t.Text != nil:
		return *t.Text, true
	case t.Bytes != nil:
		raw, err := base64.StdEncoding.DecodeString(*t.Bytes)
		if err != nil {
			return "", false
		}
		return string(raw), true
	default:
		return "", false
	}
}

// Parse implements Parser.
func (p RipgrepJSON) Parse(stdout []byte) Result[types.ContentMatch] {
	g := grouper{context: max(p.ContextLines, 0)}
	skipped := 0

	for line := range lines(stdout) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var msg rgMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			skipped++
			continue
		}

		switch msg.Type {
		case "match", "context":
			l, ok := decodeLine(msg)
			if !ok {
				skipped++
				continue
			}
			g.add(l)
		case "end":
			g.flush()
		case "begin", "summary":
		default:
			skipped++
		}
	}

	return Result[types.ContentMatch]{Records: g.records(), Skipped: skipped}
}

func decodeLine(msg rgMessage) (rgLine, bool) {
	var d rgData
	if err := json.Unmarshal(msg.Data, &d); err != nil {
		return rgLine{}, false
	}
	if d.LineNumber == nil {
		return rgLine{}, false
	}
	path, ok := d.Path.decode()
	if !ok || path == "" {
		return rgLine{}, false
	}
	text, ok := d.Lines.decode()
	if !ok {
		return rgLine{}, false
	}
	text = strings.TrimSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\r")

	return rgLine{
		path:  path,
		num:   *d.LineNumber,
		text:  text,
		match: msg.Type == "match",
	}, true
}
