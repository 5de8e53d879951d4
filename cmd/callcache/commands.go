package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/callcache"
	"github.com/unkn0wn-root/callcache/cachedir"
	"github.com/unkn0wn-root/callcache/codec"
	"github.com/unkn0wn-root/callcache/config"
	czap "github.com/unkn0wn-root/callcache/log/zap"
	"github.com/unkn0wn-root/callcache/provider/sqlite"
)

var (
	errNoFile = errors.New("missing cache file argument")
	errNoKey  = errors.New("missing key argument")
)

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "callcache",
		Usage:  "inspect and maintain call caches",
		Writer: out,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"V"}, Usage: "debug logging to stderr"},
		},
		Commands: []*cli.Command{
			{
				Name:   "clear",
				Usage:  "remove cache files from the configured cache path",
				Action: clearAction,
			},
			{
				Name:      "keys",
				Usage:     "list keys stored in a cache file",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "op", Usage: "only keys of this operation"},
				},
				Action: keysAction,
			},
			{
				Name:      "show",
				Usage:     "decode and print one stored entry",
				ArgsUsage: "<file> <key>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "codec",
						Value: "msgpack",
						Usage: "payload codec: " + strings.Join(codecNames(), ", "),
					},
				},
				Action: showAction,
			},
			{
				Name:      "invalidate",
				Usage:     "delete every entry of one operation",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "op", Usage: "operation name", Required: true},
				},
				Action: invalidateAction,
			},
			{
				Name:   "config",
				Usage:  "show the effective cache settings",
				Action: configAction,
			},
		},
	}
}

func newLogger(cmd *cli.Command) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if cmd.Root().Bool("verbose") {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

func clearAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	rep, err := cachedir.Clear(cfg.Path)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Root().Writer, "removed %d files (%s) from %s\n",
		rep.Files, humanize.Bytes(uint64(rep.Bytes)), cfg.Path)
	return nil
}

// openFile refuses to create a database for a mistyped path.
func openFile(cmd *cli.Command) (*sqlite.File, error) {
	path := cmd.Args().First()
	if path == "" {
		return nil, errNoFile
	}
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return sqlite.New(sqlite.Config{Path: path})
}

func keysAction(ctx context.Context, cmd *cli.Command) error {
	f, err := openFile(cmd)
	if err != nil {
		return err
	}
	s, err := f.Open(ctx)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	keys, err := s.Keys(ctx)
	if err != nil {
		return err
	}
	sort.Strings(keys)
	prefix := ""
	if op := cmd.String("op"); op != "" {
		prefix = op + "("
	}
	w := cmd.Root().Writer
	for _, k := range keys {
		if strings.HasPrefix(k, prefix) {
			fmt.Fprintln(w, k)
		}
	}
	return nil
}

func showAction(ctx context.Context, cmd *cli.Command) error {
	f, err := openFile(cmd)
	if err != nil {
		return err
	}
	key := cmd.Args().Get(1)
	if key == "" {
		return errNoKey
	}
	cd, err := codecByName(cmd.String("codec"))
	if err != nil {
		return err
	}

	st, err := callcache.Serialized[any](f, cd).Open(ctx)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	e, err := st.Get(ctx, key)
	if err != nil {
		return err
	}
	w := cmd.Root().Writer
	fmt.Fprintf(w, "key:     %s\n", key)
	fmt.Fprintf(w, "created: %s\n", e.CreatedAt)
	if !e.ExpiresAt.IsZero() {
		fmt.Fprintf(w, "expires: %s\n", e.ExpiresAt.Format(time.RFC3339))
	}
	fmt.Fprintf(w, "value:   %v\n", e.Value)
	return nil
}

func invalidateAction(ctx context.Context, cmd *cli.Command) error {
	f, err := openFile(cmd)
	if err != nil {
		return err
	}
	zl, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()

	op := cmd.String("op")
	// the payload is never decoded, so raw bytes fit every stored operation
	m, err := callcache.New[[]byte](callcache.Options[[]byte]{
		Name: op,
		Func: func(context.Context, ...any) ([]byte, error) {
			return nil, fmt.Errorf("%s is not callable from the command line", op)
		},
		Backend: callcache.Serialized[[]byte](f, codec.Bytes{}),
		Logger:  czap.New(zl),
	})
	if err != nil {
		return err
	}
	n, err := m.InvalidateAll(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Root().Writer, "removed %d entries of %s\n", n, op)
	return nil
}

func configAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	src := cfg.Source
	if src == "" {
		src = "<defaults>"
	}
	w := cmd.Root().Writer
	fmt.Fprintf(w, "source:     %s\n", src)
	fmt.Fprintf(w, "%s: %s\n", config.KeyInvalidate, cfg.Invalidate)
	fmt.Fprintf(w, "%s:       %s\n", config.KeyPath, cfg.Path)
	return nil
}
