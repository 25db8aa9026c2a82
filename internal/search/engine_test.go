package search

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/fd-mcp/internal/config"
	"github.com/usestring/fd-mcp/internal/history"
	"github.com/usestring/fd-mcp/internal/locate"
	"github.com/usestring/fd-mcp/internal/runner"
	"github.com/usestring/fd-mcp/pkg/types"
)

// fakeResolver resolves every kind to a fixed path, or fails.
type fakeResolver struct {
	missing bool
	calls   atomic.Int32
}

func (f *fakeResolver) Resolve(kind locate.Kind) (string, error) {
	f.calls.Add(1)
	if f.missing {
		return "", fmt.Errorf("%s: %w", kind, locate.ErrUnavailable)
	}
	return "/usr/bin/" + kind.String(), nil
}

// fakeRunner returns a canned result for Run and delegates Shell to a func.
type fakeRunner struct {
	mu       sync.Mutex
	commands []runner.Command
	scripts  []string

	result *runner.Result
	err    error
	shell  func(script string) (*runner.Result, error)
	panics bool
}

func (f *fakeRunner) Run(_ context.Context, c runner.Command) (*runner.Result, error) {
	f.mu.Lock()
	f.commands = append(f.commands, c)
	f.mu.Unlock()
	if f.panics {
		panic("boom")
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.result == nil {
		return &runner.Result{ExitCode: 1}, nil
	}
	return f.result, nil
}

func (f *fakeRunner) Shell(_ context.Context, script, _ string, _ time.Duration) (*runner.Result, error) {
	f.mu.Lock()
	f.scripts = append(f.scripts, script)
	f.mu.Unlock()
	if f.shell == nil {
		return &runner.Result{}, nil
	}
	return f.shell(script)
}

func (f *fakeRunner) spawned() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.commands) + len(f.scripts)
}

func (f *fakeRunner) lastArgs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.commands) == 0 {
		return nil
	}
	return f.commands[len(f.commands)-1].Args
}

func stdout(s string) *runner.Result {
	return &runner.Result{Stdout: []byte(s)}
}

func paths(n int) string {
	var b strings.Builder
	for i := range n {
		fmt.Fprintf(&b, "dir/file%03d.go\n", i)
	}
	return b.String()
}

func newTestEngine(t *testing.T, r *fakeRunner) (*Engine, *fakeResolver, *config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.Root = t.TempDir()
	res := &fakeResolver{}
	return New(cfg, Deps{Locator: res, Runner: r}), res, cfg
}

func requireKind(t *testing.T, err error, sentinel error) *Error {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	var se *Error
	require.ErrorAs(t, err, &se)
	return se
}

func TestSearchFiles_LimitAndTruncation(t *testing.T) {
	tests := []struct {
		name          string
		lines         int
		max           int
		wantLen       int
		wantTruncated bool
	}{
		{"fewer than max", 3, 5, 3, false},
		{"exactly max", 5, 5, 5, false},
		{"more than max", 6, 5, 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRunner{result: stdout(paths(tt.lines))}
			e, _, _ := newTestEngine(t, r)

			res, err := e.SearchFiles(context.Background(), &types.FilesRequest{Pattern: "file", MaxResults: tt.max})
			require.NoError(t, err)
			assert.Len(t, res.Results, tt.wantLen)
			assert.Equal(t, tt.wantTruncated, res.Truncated)
			assert.Equal(t, "dir/file000.go", res.Results[0].Path)

			args := r.lastArgs()
			i := slices.Index(args, "--max-results")
			require.GreaterOrEqual(t, i, 0)
			assert.Equal(t, fmt.Sprint(tt.max+1), args[i+1])
		})
	}
}

func TestSearchFiles_Defaults(t *testing.T) {
	r := &fakeRunner{result: stdout(paths(150))}
	e, _, cfg := newTestEngine(t, r)

	res, err := e.SearchFiles(context.Background(), &types.FilesRequest{})
	require.NoError(t, err)
	assert.Len(t, res.Results, 100)
	assert.True(t, res.Truncated)

	require.Len(t, r.commands, 1)
	c := r.commands[0]
	assert.Equal(t, "/usr/bin/fd", c.Path)
	assert.Equal(t, cfg.Root, c.Dir)
	assert.Equal(t, cfg.CommandTimeout, c.Timeout)
	assert.Equal(t, []string{"--", ".", "."}, c.Args[len(c.Args)-3:])
}

func TestSearchFiles_ZeroMatchesIsEmpty(t *testing.T) {
	r := &fakeRunner{result: &runner.Result{ExitCode: 1}}
	e, _, _ := newTestEngine(t, r)

	res, err := e.SearchFiles(context.Background(), &types.FilesRequest{Pattern: "nothing"})
	require.NoError(t, err)
	assert.Empty(t, res.Results)
	assert.False(t, res.Truncated)
}

func TestSearchFiles_OutputCapSetsTruncated(t *testing.T) {
	r := &fakeRunner{result: &runner.Result{Stdout: []byte("a\nb\n"), Truncated: true}}
	e, _, _ := newTestEngine(t, r)

	res, err := e.SearchFiles(context.Background(), &types.FilesRequest{})
	require.NoError(t, err)
	assert.Len(t, res.Results, 2)
	assert.True(t, res.Truncated)
}

func TestSearchFiles_ShellMetacharactersStayLiteral(t *testing.T) {
	r := &fakeRunner{result: stdout("")}
	e, _, _ := newTestEngine(t, r)

	_, err := e.SearchFiles(context.Background(), &types.FilesRequest{Pattern: "; rm -rf /"})
	require.NoError(t, err)
	args := r.lastArgs()
	sep := slices.Index(args, "--")
	require.GreaterOrEqual(t, sep, 0)
	assert.Equal(t, "; rm -rf /", args[sep+1])
	assert.Empty(t, r.scripts, "no shell involved")
}

func TestSearchFiles_Validation(t *testing.T) {
	tests := []struct {
		name      string
		req       types.FilesRequest
		wantField string
	}{
		{"negative max", types.FilesRequest{MaxResults: -1}, "max_results"},
		{"max above limit", types.FilesRequest{MaxResults: config.MaxResultsLimitValue + 1}, "max_results"},
		{"bad type", types.FilesRequest{EntryType: "block"}, "type"},
		{"negative depth", types.FilesRequest{MaxDepth: -2}, "max_depth"},
		{"extension with slash", types.FilesRequest{Extension: "a/b"}, "extension"},
		{"missing root", types.FilesRequest{Root: "does/not/exist"}, "path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRunner{}
			e, _, _ := newTestEngine(t, r)

			_, err := e.SearchFiles(context.Background(), &tt.req)
			se := requireKind(t, err, ErrInvalidParameter)
			assert.Equal(t, tt.wantField, se.Field)
			assert.Zero(t, r.spawned())
		})
	}
}

func TestSearchFiles_SocketAndPipeTypes(t *testing.T) {
	tests := []struct {
		in   types.EntryType
		want string
	}{
		{types.EntrySocket, "s"},
		{"s", "s"},
		{types.EntryPipe, "p"},
		{"p", "p"},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			r := &fakeRunner{result: &runner.Result{ExitCode: 1}}
			e, _, _ := newTestEngine(t, r)

			_, err := e.SearchFiles(context.Background(), &types.FilesRequest{EntryType: tt.in})
			require.NoError(t, err)
			args := strings.Join(r.lastArgs(), " ")
			assert.Contains(t, args, "--type "+tt.want)
		})
	}
}

func TestSearchFiles_RootMustBeDirectory(t *testing.T) {
	r := &fakeRunner{}
	e, _, cfg := newTestEngine(t, r)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Root, "plain.txt"), nil, 0o644))

	_, err := e.SearchFiles(context.Background(), &types.FilesRequest{Root: "plain.txt"})
	se := requireKind(t, err, ErrInvalidParameter)
	assert.Equal(t, "path", se.Field)
	assert.Contains(t, se.Message, "not a directory")
}

func TestSearchFiles_RelativeRootResolvesAgainstWorkspace(t *testing.T) {
	r := &fakeRunner{result: stdout("src/main.go\n")}
	e, _, cfg := newTestEngine(t, r)
	require.NoError(t, os.Mkdir(filepath.Join(cfg.Root, "src"), 0o755))

	_, err := e.SearchFiles(context.Background(), &types.FilesRequest{Root: "src"})
	require.NoError(t, err)
	args := r.lastArgs()
	assert.Equal(t, "src", args[len(args)-1])
}

func TestToolUnavailable_NoProcessSpawned(t *testing.T) {
	hours := 1.0
	ops := map[string]func(e *Engine) error{
		"search_files": func(e *Engine) error {
			_, err := e.SearchFiles(context.Background(), &types.FilesRequest{})
			return err
		},
		"search_content": func(e *Engine) error {
			_, err := e.SearchContent(context.Background(), &types.ContentRequest{SearchPattern: "x"})
			return err
		},
		"exec": func(e *Engine) error {
			_, err := e.Exec(context.Background(), &types.ExecRequest{Command: "wc -l {}"})
			return err
		},
		"recent_files": func(e *Engine) error {
			_, err := e.RecentFiles(context.Background(), &types.RecentRequest{Hours: &hours})
			return err
		},
		"count": func(e *Engine) error {
			_, err := e.Count(context.Background(), &types.CountRequest{})
			return err
		},
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			r := &fakeRunner{}
			cfg := config.Default()
			// A root that does not exist proves resolution happens before the stat.
			cfg.Root = filepath.Join(t.TempDir(), "missing")
			loc := locate.New(locate.WithLookPath(func(string) (string, error) {
				return "", errors.New("not found")
			}))
			e := New(cfg, Deps{Locator: loc, Runner: r})

			requireKind(t, op(e), ErrToolUnavailable)
			assert.Zero(t, r.spawned())
		})
	}
}

func TestSearchContent(t *testing.T) {
	const out = "a.go\x001-package a\n" +
		"a.go\x002:func A() {}\n" +
		"a.go\x003-\n" +
		"a.go\x004:func B() {}\n" +
		"b.txt\x009:func C\n"

	t.Run("matches with context", func(t *testing.T) {
		r := &fakeRunner{result: stdout(out)}
		e, _, _ := newTestEngine(t, r)

		res, err := e.SearchContent(context.Background(), &types.ContentRequest{SearchPattern: "func", ContextLines: 1})
		require.NoError(t, err)
		require.Len(t, res.Matches, 3)
		for _, m := range res.Matches {
			assert.LessOrEqual(t, len(m.ContextBefore), 1)
			assert.LessOrEqual(t, len(m.ContextAfter), 1)
		}
		assert.Less(t, res.Matches[0].LineNumber, res.Matches[1].LineNumber)
		assert.Contains(t, r.lastArgs(), "--context=1")
		assert.Equal(t, "/usr/bin/rg", r.commands[0].Path)
	})

	t.Run("limit", func(t *testing.T) {
		r := &fakeRunner{result: stdout(out)}
		e, _, _ := newTestEngine(t, r)

		res, err := e.SearchContent(context.Background(), &types.ContentRequest{SearchPattern: "func", MaxResults: 2})
		require.NoError(t, err)
		assert.Len(t, res.Matches, 2)
		assert.True(t, res.Truncated)
	})

	t.Run("extension filters when a glob is also set", func(t *testing.T) {
		r := &fakeRunner{result: stdout(out)}
		e, _, _ := newTestEngine(t, r)

		res, err := e.SearchContent(context.Background(), &types.ContentRequest{
			SearchPattern: "func",
			FileGlob:      "*",
			Extension:     ".txt",
		})
		require.NoError(t, err)
		require.Len(t, res.Matches, 1)
		assert.Equal(t, "b.txt", res.Matches[0].Path)
	})

	t.Run("required pattern", func(t *testing.T) {
		r := &fakeRunner{}
		e, res, _ := newTestEngine(t, r)

		_, err := e.SearchContent(context.Background(), &types.ContentRequest{})
		se := requireKind(t, err, ErrInvalidParameter)
		assert.Equal(t, "search_pattern", se.Field)
		assert.Zero(t, res.calls.Load())
	})

	t.Run("negative context", func(t *testing.T) {
		e, _, _ := newTestEngine(t, &fakeRunner{})
		_, err := e.SearchContent(context.Background(), &types.ContentRequest{SearchPattern: "x", ContextLines: -1})
		se := requireKind(t, err, ErrInvalidParameter)
		assert.Equal(t, "context_lines", se.Field)
	})

	t.Run("json grammar", func(t *testing.T) {
		js := `{"type":"match","data":{"path":{"text":"a.go"},"lines":{"text":"func A() {}\n"},"line_number":2}}` + "\n"
		r := &fakeRunner{result: stdout(js)}
		e, _, cfg := newTestEngine(t, r)
		cfg.ContentFormat = config.ContentFormatJSON

		res, err := e.SearchContent(context.Background(), &types.ContentRequest{SearchPattern: "func"})
		require.NoError(t, err)
		require.Len(t, res.Matches, 1)
		assert.Equal(t, "func A() {}", res.Matches[0].MatchedText)
		assert.Contains(t, r.lastArgs(), "--json")
	})

	t.Run("malformed lines are counted", func(t *testing.T) {
		r := &fakeRunner{result: stdout("garbage\n" + out)}
		e, _, _ := newTestEngine(t, r)

		res, err := e.SearchContent(context.Background(), &types.ContentRequest{SearchPattern: "func"})
		require.NoError(t, err)
		assert.Equal(t, 1, res.ParseWarnings)
		assert.Len(t, res.Matches, 3)
	})
}

func TestRunFailures(t *testing.T) {
	t.Run("failed run carries stderr", func(t *testing.T) {
		r := &fakeRunner{result: &runner.Result{ExitCode: 2, Stderr: []byte("regex parse error: unclosed group\n")}}
		e, _, _ := newTestEngine(t, r)

		_, err := e.SearchContent(context.Background(), &types.ContentRequest{SearchPattern: "("})
		se := requireKind(t, err, ErrExecutionFailed)
		assert.Equal(t, "regex parse error: unclosed group", se.Stderr)
	})

	t.Run("timeout", func(t *testing.T) {
		r := &fakeRunner{err: &runner.TimeoutError{Cmd: "fd", After: time.Second}}
		e, _, _ := newTestEngine(t, r)

		res, err := e.SearchFiles(context.Background(), &types.FilesRequest{})
		assert.Nil(t, res)
		requireKind(t, err, ErrExecutionTimeout)
	})

	t.Run("spawn error", func(t *testing.T) {
		r := &fakeRunner{err: &runner.SpawnError{Path: "/usr/bin/fd", Cause: os.ErrPermission}}
		e, _, _ := newTestEngine(t, r)

		_, err := e.Count(context.Background(), &types.CountRequest{})
		requireKind(t, err, ErrExecutionFailed)
		assert.ErrorIs(t, err, os.ErrPermission)
	})

	t.Run("partial run keeps records and warnings", func(t *testing.T) {
		r := &fakeRunner{result: &runner.Result{
			ExitCode: 1,
			Stdout:   []byte("ok.txt\n"),
			Stderr:   []byte("[fd error]: Permission denied: locked\n"),
		}}
		e, _, _ := newTestEngine(t, r)

		res, err := e.SearchFiles(context.Background(), &types.FilesRequest{})
		require.NoError(t, err)
		assert.Len(t, res.Results, 1)
		assert.Equal(t, []string{"[fd error]: Permission denied: locked"}, res.Warnings)
	})

	t.Run("panic is recovered", func(t *testing.T) {
		r := &fakeRunner{panics: true}
		e, _, _ := newTestEngine(t, r)

		_, err := e.SearchFiles(context.Background(), &types.FilesRequest{})
		requireKind(t, err, ErrExecutionFailed)
	})
}

func TestExec(t *testing.T) {
	t.Run("missing placeholder rejected before anything runs", func(t *testing.T) {
		r := &fakeRunner{}
		e, res, _ := newTestEngine(t, r)

		_, err := e.Exec(context.Background(), &types.ExecRequest{Command: "echo hello"})
		se := requireKind(t, err, ErrInvalidParameter)
		assert.Equal(t, "command", se.Field)
		assert.Zero(t, r.spawned())
		assert.Zero(t, res.calls.Load())
	})

	t.Run("malformed template", func(t *testing.T) {
		r := &fakeRunner{}
		e, _, _ := newTestEngine(t, r)

		_, err := e.Exec(context.Background(), &types.ExecRequest{Command: "echo 'unterminated {}"})
		requireKind(t, err, ErrInvalidParameter)
		assert.Zero(t, r.spawned())
	})

	t.Run("per-file failures do not abort the batch", func(t *testing.T) {
		r := &fakeRunner{
			result: stdout("a.txt\nb.txt\nc.txt\n"),
			shell: func(script string) (*runner.Result, error) {
				switch {
				case strings.Contains(script, "b.txt"):
					return &runner.Result{ExitCode: 3, Stderr: []byte("bad\n")}, nil
				case strings.Contains(script, "c.txt"):
					return nil, &runner.TimeoutError{Cmd: "sh", After: time.Second}
				default:
					return &runner.Result{Stdout: []byte("1 a.txt\n")}, nil
				}
			},
		}
		e, _, _ := newTestEngine(t, r)

		res, err := e.Exec(context.Background(), &types.ExecRequest{Command: "wc -l {}", Pattern: "txt"})
		require.NoError(t, err)
		require.Len(t, res.Results, 3)
		assert.Equal(t, 2, res.Failures)

		assert.Equal(t, "a.txt", res.Results[0].Record.Path)
		assert.Equal(t, "1 a.txt", res.Results[0].Output)
		assert.Zero(t, res.Results[0].ExitStatus)

		assert.Equal(t, "b.txt", res.Results[1].Record.Path)
		assert.Equal(t, 3, res.Results[1].ExitStatus)
		assert.Equal(t, "bad", res.Results[1].Output)

		assert.Equal(t, "c.txt", res.Results[2].Record.Path)
		assert.True(t, res.Results[2].TimedOut)
		assert.Equal(t, -1, res.Results[2].ExitStatus)
	})

	t.Run("path is quoted into the script", func(t *testing.T) {
		r := &fakeRunner{result: stdout("it's here.txt\n")}
		e, _, _ := newTestEngine(t, r)

		_, err := e.Exec(context.Background(), &types.ExecRequest{Command: "cat {}"})
		require.NoError(t, err)
		require.Len(t, r.scripts, 1)
		assert.Equal(t, `cat 'it'"'"'s here.txt'`, r.scripts[0])
	})

	t.Run("max files", func(t *testing.T) {
		r := &fakeRunner{result: stdout(paths(4))}
		e, _, _ := newTestEngine(t, r)

		res, err := e.Exec(context.Background(), &types.ExecRequest{Command: "true {}", MaxFiles: 2})
		require.NoError(t, err)
		assert.Len(t, res.Results, 2)
		assert.True(t, res.Truncated)
		assert.Len(t, r.scripts, 2)
	})

	t.Run("binary output replaced", func(t *testing.T) {
		r := &fakeRunner{
			result: stdout("img.png\n"),
			shell: func(string) (*runner.Result, error) {
				return &runner.Result{Stdout: []byte{0x89, 'P', 'N', 'G', 0x00, 0x01}}, nil
			},
		}
		e, _, _ := newTestEngine(t, r)

		res, err := e.Exec(context.Background(), &types.ExecRequest{Command: "cat {}"})
		require.NoError(t, err)
		require.Len(t, res.Results, 1)
		assert.Equal(t, "[binary output, 6 bytes]", res.Results[0].Output)
	})
}

func TestRecentFiles(t *testing.T) {
	t.Run("default window", func(t *testing.T) {
		r := &fakeRunner{result: stdout(paths(60))}
		e, _, _ := newTestEngine(t, r)

		res, err := e.RecentFiles(context.Background(), &types.RecentRequest{})
		require.NoError(t, err)
		assert.Len(t, res.Results, 50)
		assert.True(t, res.Truncated)
		assert.Equal(t, 24.0, res.Hours)

		args := r.lastArgs()
		i := slices.Index(args, "--changed-within")
		require.GreaterOrEqual(t, i, 0)
		assert.Equal(t, "86400s", args[i+1])
	})

	for _, h := range []float64{0, -3} {
		t.Run(fmt.Sprintf("rejects %v hours", h), func(t *testing.T) {
			r := &fakeRunner{}
			e, _, _ := newTestEngine(t, r)

			_, err := e.RecentFiles(context.Background(), &types.RecentRequest{Hours: &h})
			se := requireKind(t, err, ErrInvalidParameter)
			assert.Equal(t, "hours", se.Field)
			assert.Zero(t, r.spawned())
		})
	}
}

func TestCount(t *testing.T) {
	t.Run("zero is not an error", func(t *testing.T) {
		r := &fakeRunner{result: &runner.Result{ExitCode: 0}}
		e, _, _ := newTestEngine(t, r)

		res, err := e.Count(context.Background(), &types.CountRequest{Pattern: "nothing"})
		require.NoError(t, err)
		assert.Zero(t, res.Count)
	})

	t.Run("counts every line without a limit", func(t *testing.T) {
		r := &fakeRunner{result: stdout(paths(250))}
		e, _, _ := newTestEngine(t, r)

		res, err := e.Count(context.Background(), &types.CountRequest{})
		require.NoError(t, err)
		assert.Equal(t, 250, res.Count)
		assert.False(t, res.Truncated)
		assert.NotContains(t, r.lastArgs(), "--max-results")
	})
}

func TestHistoryRecorded(t *testing.T) {
	log, err := history.New(8)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Root = t.TempDir()
	r := &fakeRunner{result: stdout("x.go\nbad\x00line\n")}
	e := New(cfg, Deps{Locator: &fakeResolver{}, Runner: r, History: log})

	_, err = e.SearchFiles(context.Background(), &types.FilesRequest{Pattern: "x"})
	require.NoError(t, err)

	recent := log.Recent()
	require.Len(t, recent, 1)
	inv := recent[0]
	assert.Equal(t, "search_files", inv.Operation)
	assert.Equal(t, "fd", inv.Tool)
	assert.Equal(t, 1, inv.Records)
	assert.Equal(t, 1, inv.ParseWarnings)
	assert.Equal(t, "ok", inv.Outcome)
	assert.Equal(t, r.lastArgs(), inv.Argv)
}
