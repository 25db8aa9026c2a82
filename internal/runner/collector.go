package runner

import "bytes"

// collector is an io.Writer that keeps at most max bytes and silently drops
// the rest, remembering that it did. Writes never fail.
type collector struct {
	buf       bytes.Buffer
	max       int
	truncated bool
}

func newCollector(max int) *collector {
	return &collector{max: max}
}

func (c *collector) Write(p []byte) (int, error) {
	if c.max <= 0 {
		return c.buf.Write(p)
	}

	room := c.max - c.buf.Len()
	if room <= 0 {
		c.truncated = true
		return len(p), nil
	}
	if len(p) > room {
		c.buf.Write(p[:room])
		c.truncated = true
		return len(p), nil
	}
	c.buf.Write(p)
	return len(p), nil
}

func (c *collector) Bytes() []byte {
	return c.buf.Bytes()
}

func (c *collector) Truncated() bool {
	return c.truncated
}

// trimPartialLine drops everything after the last newline so that a capped
// stream never ends in half a record.
func trimPartialLine(b []byte) []byte {
	i := bytes.LastIndexByte(b, '\n')
	if i < 0 {
		return b[:0]
	}
	return b[:i+1]
}

// binarySampleSize matches git's heuristic for spotting binary content.
const binarySampleSize = 8000

// IsBinary reports whether b looks like binary data: a NUL byte within the
// first 8000 bytes, unless the data starts with a UTF-16 or UTF-32 BOM.
func IsBinary(b []byte) bool {
	if len(b) >= 2 && ((b[0] == 0xFF && b[1] == 0xFE) || (b[0] == 0xFE && b[1] == 0xFF)) {
		return false
	}
	if len(b) >= 4 && b[0] == 0x00 && b[1] == 0x00 && b[2] == 0xFE && b[3] == 0xFF {
		return false
	}
	return bytes.IndexByte(b[:min(len(b), binarySampleSize)], 0) >= 0
}
