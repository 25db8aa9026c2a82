// Package locate finds the external search binaries and remembers the answer
// for the lifetime of the process.
package locate

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Kind identifies an external tool.
type Kind int

const (
	// FileFinder is fd, installed as fdfind on Debian and Ubuntu.
	FileFinder Kind = iota
	// ContentSearch is ripgrep.
	ContentSearch
)

func (k Kind) String() string {
	switch k {
	case FileFinder:
		return "fd"
	case ContentSearch:
		return "rg"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrUnavailable is returned when no candidate for a tool is installed.
var ErrUnavailable = errors.New("tool not installed")

// DefaultCandidates lists the executable names tried for each kind, in order.
var DefaultCandidates = map[Kind][]string{
	FileFinder:    {"fd", "fdfind"},
	ContentSearch: {"rg"},
}

// LookPathFunc searches for an executable, like exec.LookPath.
type LookPathFunc func(file string) (string, error)

// Resolver resolves a tool kind to an executable path.
type Resolver interface {
	Resolve(kind Kind) (string, error)
}

// availability is the memoized outcome of probing one kind.
type availability struct {
	path    string
	checked bool
}

// Status describes one tool for diagnostics.
type Status struct {
	Tool      string `json:"tool"`
	Checked   bool   `json:"checked"`
	Available bool   `json:"available"`
	Path      string `json:"path,omitempty"`
}

// Locator resolves tool kinds once and serves the cached answer afterwards.
// It is safe for concurrent use.
type Locator struct {
	lookPath   LookPathFunc
	candidates map[Kind][]string
	state      [2]atomic.Pointer[availability]
	probes     singleflight.Group
}

// Option configures a Locator.
type Option func(*Locator)

// WithLookPath replaces exec.LookPath, mainly for tests.
func WithLookPath(fn LookPathFunc) Option {
	return func(l *Locator) {
		l.lookPath = fn
	}
}

// WithPreferred puts name ahead of the default candidates for kind.
// Empty names are ignored.
func WithPreferred(kind Kind, name string) Option {
	return func(l *Locator) {
		if name == "" {
			return
		}
		l.candidates[kind] = append([]string{name}, l.candidates[kind]...)
	}
}

// New creates a Locator.
func New(opts ...Option) *Locator {
	l := &Locator{
		lookPath:   exec.LookPath,
		candidates: make(map[Kind][]string, len(DefaultCandidates)),
	}
	for k, names := range DefaultCandidates {
		l.candidates[k] = append([]string(nil), names...)
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Resolve returns the path of the first installed candidate for kind.
// The first completed probe is stored and never re-run, including a negative
// result.
func (l *Locator) Resolve(kind Kind) (string, error) {
	slot, err := l.slot(kind)
	if err != nil {
		return "", err
	}

	if a := slot.Load(); a != nil {
		return a.result(kind)
	}

	v, _, _ := l.probes.Do(kind.String(), func() (any, error) {
		if a := slot.Load(); a != nil {
			return a, nil
		}
		probed := l.probe(kind)
		if !slot.CompareAndSwap(nil, probed) {
			return slot.Load(), nil
		}
		if probed.path != "" {
			slog.Info("resolved tool binary", slog.String("tool", kind.String()), slog.String("path", probed.path))
		} else {
			slog.Warn("tool binary not found", slog.String("tool", kind.String()), slog.Any("candidates", l.candidates[kind]))
		}
		return probed, nil
	})
	return v.(*availability).result(kind)
}

// Status reports every kind without probing ones that were never resolved.
func (l *Locator) Status() []Status {
	out := make([]Status, 0, len(l.state))
	for _, kind := range []Kind{FileFinder, ContentSearch} {
		st := Status{Tool: kind.String()}
		if a := l.state[kind].Load(); a != nil {
			st.Checked = a.checked
			st.Available = a.path != ""
			st.Path = a.path
		}
		out = append(out, st)
	}
	return out
}

func (l *Locator) slot(kind Kind) (*atomic.Pointer[availability], error) {
	if kind < 0 || int(kind) >= len(l.state) {
		return nil, fmt.Errorf("unknown tool kind %d", int(kind))
	}
	return &l.state[kind], nil
}

func (l *Locator) probe(kind Kind) *availability {
	for _, name := range l.candidates[kind] {
		if path, err := l.lookPath(name); err == nil && path != "" {
			return &availability{path: path, checked: true}
		}
	}
	return &availability{checked: true}
}

func (a *availability) result(kind Kind) (string, error) {
	if a.path == "" {
		return "", fmt.Errorf("%s: %w", kind, ErrUnavailable)
	}
	return a.path, nil
}
