package parse

import "github.com/usestring/fd-mcp/pkg/types"

// rgLine is one line of ripgrep output after the grammar has been decoded.
type rgLine struct {
	path  string
	num   int
	text  string
	match bool
}

// grouper assembles ripgrep lines into ContentMatch records.
//
// Lines are buffered per block, a block ending at a "--" separator, an end
// message, or a change of path. Each match then takes the neighbouring lines
// of its block whose line numbers fall within the context window. Neighbours
// may themselves be matches when two matches sit closer than the window.
type grouper struct {
	context int
	block   []rgLine
	out     []types.ContentMatch
}

func (g *grouper) add(l rgLine) {
	if len(g.block) > 0 && g.block[len(g.block)-1].path != l.path {
		g.flush()
	}
	g.block = append(g.block, l)
}

func (g *grouper) flush() {
	for i, l := range g.block {
		if !l.match {
			continue
		}
		m := types.ContentMatch{
			Path:        l.path,
			LineNumber:  l.num,
			MatchedText: l.text,
		}
		if g.context > 0 {
			m.ContextBefore = g.before(i)
			m.ContextAfter = g.after(i)
		}
		g.out = append(g.out, m)
	}
	g.block = g.block[:0]
}

func (g *grouper) before(i int) []string {
	n := g.block[i].num
	start := i
	for start > 0 {
		prev := g.block[start-1]
		if prev.num >= n || prev.num < n-g.context {
			break
		}
		start--
	}
	if start == i {
		return nil
	}
	texts := make([]string, 0, i-start)
	for _, l := range g.block[start:i] {
		texts = append(texts, l.text)
	}
	return texts
}

func (g *grouper) after(i int) []string {
	n := g.block[i].num
	end := i + 1
	for end < len(g.block) {
		next := g.block[end]
		if next.num <= n || next.num > n+g.context {
			break
		}
		end++
	}
	if end == i+1 {
		return nil
	}
	texts := make([]string, 0, end-i-1)
	for _, l := range g.block[i+1 : end] {
		texts = append(texts, l.text)
	}
	return texts
}

func (g *grouper) records() []types.ContentMatch {
	g.flush()
	return g.out
}
