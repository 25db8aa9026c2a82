package argv

import (
	"errors"
	"fmt"
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/mattn/go-shellwords"
)

// Placeholder is replaced by each matched path in an exec command template.
const Placeholder = "{}"

// ErrNoPlaceholder is returned for templates that never mention the path.
var ErrNoPlaceholder = errors.New("command must contain the " + Placeholder + " placeholder")

// CheckTemplate rejects templates without a placeholder and templates whose
// quoting a POSIX shell could not parse.
func CheckTemplate(template string) error {
	if strings.TrimSpace(template) == "" {
		return errors.New("command is empty")
	}
	if !strings.Contains(template, Placeholder) {
		return ErrNoPlaceholder
	}

	// shellwords stops at the first ; & | < or > and reports its rune offset,
	// so each segment of a compound command is checked in turn.
	parser := shellwords.NewParser()
	parser.ParseEnv = false
	parser.ParseBacktick = false
	rest := []rune(ExpandTemplate(template, "path"))
	for len(rest) > 0 {
		if _, err := parser.Parse(string(rest)); err != nil {
			return fmt.Errorf("malformed command: %w", err)
		}
		if parser.Position < 0 || parser.Position >= len(rest) {
			break
		}
		rest = rest[parser.Position+1:]
	}
	return nil
}

// quotedPlaceholders are placeholders the caller already wrapped in quotes.
// The quotes are dropped so the path is not quoted twice.
var quotedPlaceholders = strings.NewReplacer(
	`"`+Placeholder+`"`, Placeholder,
	`'`+Placeholder+`'`, Placeholder,
)

// ExpandTemplate substitutes every placeholder with the shell-quoted path.
// A placeholder written as "{}" or '{}' is treated like a bare {}.
//
// The result is a shell script. Only the path is quoted; the rest of the
// template is the caller's own shell code and runs as written.
func ExpandTemplate(template, path string) string {
	template = quotedPlaceholders.Replace(template)
	return strings.ReplaceAll(template, Placeholder, shellescape.Quote(path))
}
