package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/usestring/fd-mcp/internal/config"
	"github.com/usestring/fd-mcp/internal/locate"
	"github.com/usestring/fd-mcp/pkg/mcpsrv"
)

// flags holds command-line overrides. Empty values leave the environment
// configuration in place.
type flags struct {
	root          string
	logLevel      string
	logFile       string
	contentFormat string
	fdBinary      string
	rgBinary      string
}

func (f *flags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.root, "root", "", "workspace root searches are confined to (env FD_MCP_ROOT, default: working directory)")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error (env LOG_LEVEL)")
	fs.StringVar(&f.logFile, "log-file", "", "log file path, stderr when empty (env LOG_FILE)")
	fs.StringVar(&f.contentFormat, "content-format", "", "ripgrep output grammar: text or json (env CONTENT_FORMAT)")
	fs.StringVar(&f.fdBinary, "fd-binary", "", "fd executable probed before fd and fdfind (env FD_MCP_FD_BINARY)")
	fs.StringVar(&f.rgBinary, "rg-binary", "", "ripgrep executable probed before rg (env FD_MCP_RG_BINARY)")
}

func (f *flags) options() []mcpsrv.Option {
	var opts []mcpsrv.Option
	if f.root != "" {
		opts = append(opts, mcpsrv.WithRoot(f.root))
	}
	if f.logLevel != "" {
		opts = append(opts, mcpsrv.WithLogLevel(f.logLevel))
	}
	if f.logFile != "" {
		opts = append(opts, mcpsrv.WithLogFile(f.logFile))
	}
	if f.contentFormat != "" {
		opts = append(opts, mcpsrv.WithContentFormat(f.contentFormat))
	}
	if f.fdBinary != "" {
		opts = append(opts, mcpsrv.WithBinary("fd", f.fdBinary))
	}
	if f.rgBinary != "" {
		opts = append(opts, mcpsrv.WithBinary("rg", f.rgBinary))
	}
	return opts
}

func main() {
	// Set up context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newApp().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "fd-mcp:", err)
		os.Exit(1)
	}
}

func newApp() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "fd-mcp",
		Short: "MCP server exposing fd and ripgrep file search",
		Long: `Serve MCP over stdio.

Expected to be executed via an AI agent, not by a human. Configuration is read
from the environment (see internal/config); flags override it.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serveAction(cmd.Context(), f)
		},
	}
	f.register(cmd.PersistentFlags())
	cmd.AddCommand(newDoctorCommand(f))
	return cmd
}

func serveAction(ctx context.Context, f *flags) error {
	server, err := mcpsrv.NewServer(f.options()...)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer server.Close()

	// Run the server with stdio transport
	slog.Info("starting fd-mcp server on stdio", slog.String("root", server.Deps().Config.Root))
	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	slog.Info("server stopped")
	return nil
}

func newDoctorCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that fd and ripgrep can be found",
		Long: `Resolve fd and ripgrep the same way the server does and print their paths.

Exits non-zero when fd is missing. A missing ripgrep only disables search_content.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return doctorAction(cmd, f)
		},
	}
}

func doctorAction(cmd *cobra.Command, f *flags) error {
	cfg := config.Load()
	if f.fdBinary != "" {
		cfg.FdBinary = f.fdBinary
	}
	if f.rgBinary != "" {
		cfg.RgBinary = f.rgBinary
	}
	if f.root != "" {
		cfg.Root = f.root
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "root: %s\n", cfg.Root)
	if st, err := os.Stat(cfg.Root); err != nil || !st.IsDir() {
		fmt.Fprintln(out, "  warning: root is not an accessible directory")
	}

	loc := mcpsrv.NewLocator(cfg)
	var fdErr error
	for _, kind := range []locate.Kind{locate.FileFinder, locate.ContentSearch} {
		path, err := loc.Resolve(kind)
		if err != nil {
			fmt.Fprintf(out, "%s: not found\n", kind)
			if kind == locate.FileFinder {
				fdErr = err
			}
			continue
		}
		fmt.Fprintf(out, "%s: %s\n", kind, path)
	}
	if fdErr != nil {
		return fmt.Errorf("fd is required: install fd (or fd-find) and make sure it is on PATH: %w", fdErr)
	}
	return nil
}
