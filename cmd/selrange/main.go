package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"
	"go.lsp.dev/uri"

	"github.com/ThreeFx/selrange/internal/config"
	"github.com/ThreeFx/selrange/internal/editor"
	"github.com/ThreeFx/selrange/internal/logging"
	"github.com/ThreeFx/selrange/internal/rpc"
	"github.com/ThreeFx/selrange/protocol"
)

type options struct {
	socket     string
	configPath string
	print      bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "selrange [flags] [-- server-command args...]",
		Short: "Ask a language server for selection ranges at the Neovim cursors",
		Long: `selrange reads the cursor of every window showing the current Neovim buffer,
builds a textDocument/selectionRange request for them and either prints it or
sends it to a language server started over stdio.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, args)
		},
	}
	cmd.Flags().StringVarP(&opts.socket, "socket", "s", defaultSocket(), "Neovim RPC socket")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "config file (.toml, .yaml)")
	cmd.Flags().BoolVarP(&opts.print, "print", "p", false, "print the request instead of sending it")
	return cmd
}

func defaultSocket() string {
	if s := os.Getenv("NVIM"); s != "" {
		return s
	}
	return os.Getenv("NVIM_LISTEN_ADDRESS")
}

func run(ctx context.Context, stdout, stderr io.Writer, opts *options, args []string) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		cfg.Server.Command = args[0]
		cfg.Server.Args = args[1:]
	}
	logger := logging.New(cfg.Log, stderr)

	if opts.socket == "" {
		return fmt.Errorf("no Neovim socket: pass --socket or run inside Neovim")
	}
	session, err := editor.Dial(opts.socket, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	buf, params, err := session.CursorParams()
	if err != nil {
		return err
	}
	if opts.print {
		return printParams(stdout, params)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	text, err := session.BufferText(buf.ID)
	if err != nil {
		return err
	}
	languageID, err := session.FileType(buf.ID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	ranges, err := requestFromServer(ctx, cfg.Server, logger, stderr, document{
		params:     params,
		languageID: languageID,
		text:       text,
	})
	if err != nil {
		return err
	}
	printRanges(stdout, params, ranges)
	return nil
}

type document struct {
	params     *protocol.SelectionRangeParams
	languageID string
	text       string
}

func requestFromServer(ctx context.Context, server config.ServerConfig, logger zerolog.Logger, stderr io.Writer, doc document) ([]protocol.SelectionRange, error) {
	cmd := exec.CommandContext(ctx, server.Command, server.Args...)
	cmd.Stderr = stderr
	lspin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	lspout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", server.Command, err)
	}
	logger.Debug().Str("command", server.Command).Strs("args", server.Args).Int("pid", cmd.Process.Pid).Msg("language server started")

	client := rpc.NewClient(ctx, rpc.NewStream(lspout, lspin), logger)
	ranges, err := query(ctx, client, rootURI(server, doc.params), doc)
	if err != nil {
		client.Close()
		if werr := cmd.Wait(); werr != nil {
			logger.Warn().Err(werr).Msg("language server exited")
		}
		return nil, err
	}
	if err := cmd.Wait(); err != nil {
		logger.Warn().Err(err).Msg("language server exited")
	}
	return ranges, nil
}

// query runs one request on a fresh connection: handshake, open, ask, close
// and shut down.
func query(ctx context.Context, client *rpc.Client, root string, doc document) ([]protocol.SelectionRange, error) {
	if err := client.Initialize(ctx, root); err != nil {
		return nil, err
	}
	if err := client.DidOpen(ctx, doc.params.TextDocument(), doc.languageID, doc.text); err != nil {
		return nil, err
	}
	ranges, err := client.SelectionRange(ctx, doc.params)
	if err != nil {
		return nil, err
	}
	if err := client.DidClose(ctx, doc.params.TextDocument()); err != nil {
		return nil, err
	}
	if err := client.Shutdown(ctx); err != nil {
		return nil, err
	}
	return ranges, nil
}

func rootURI(server config.ServerConfig, params *protocol.SelectionRangeParams) string {
	if server.RootURI != "" {
		return server.RootURI
	}
	path := params.TextDocument().URI.Filename()
	return string(uri.File(filepath.Dir(path)))
}

func printParams(w io.Writer, params *protocol.SelectionRangeParams) error {
	fmt.Fprintln(w, params.String())
	data, err := json.MarshalIndent(params, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printRanges writes one line per cursor: the position, then its selection
// ranges from the innermost outwards.
func printRanges(w io.Writer, params *protocol.SelectionRangeParams, ranges []protocol.SelectionRange) {
	positions := params.Positions()
	if len(ranges) == 0 {
		fmt.Fprintln(w, "no selection ranges")
		return
	}
	for i, r := range ranges {
		chain := r.Chain()
		parts := make([]string, len(chain))
		for j, c := range chain {
			parts[j] = formatRange(c)
		}
		fmt.Fprintf(w, "%s\t%s\n", formatPosition(positions[i]), strings.Join(parts, " < "))
	}
}

func formatPosition(p protocol.Position) string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Character+1)
}

func formatRange(r protocol.Range) string {
	return formatPosition(r.Start) + "-" + formatPosition(r.End)
}
