package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/structidx"
	"github.com/hupe1980/structidx/codec"
	"github.com/hupe1980/structidx/docstore"
	"github.com/hupe1980/structidx/docstore/s3"
)

// globalOptions holds the persistent flags shared by all commands.
type globalOptions struct {
	configPath string
	codecName  string
	jsonOut    bool
	verbose    bool

	cfg *structidx.Config
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "structidx",
		Short: "Extract values from JSON documents without parsing them",
		Long: `structidx builds a structural index over a JSON document and resolves
dotted attribute paths against it. Patterns learned on one document are
reused speculatively on the next, which makes filtering large batches of
similarly shaped documents cheap.`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.load()
		},
	}

	cmd.PersistentFlags().StringVar(&g.configPath, "config", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&g.codecName, "codec", "go-json", "JSON codec for output (json, go-json)")
	cmd.PersistentFlags().BoolVar(&g.jsonOut, "json", false, "Output in JSON format")
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log index builds and lookups to stderr")

	cmd.AddCommand(
		newGetCmd(g),
		newExplainCmd(g),
		newFilterCmd(g),
		newEncodeCmd(g),
	)
	return cmd
}

func (g *globalOptions) load() error {
	if g.configPath == "" {
		g.cfg = &structidx.Config{}
		return nil
	}
	cfg, err := structidx.LoadConfig(g.configPath)
	if err != nil {
		return err
	}
	g.cfg = cfg
	return nil
}

func (g *globalOptions) extractor(stderr io.Writer) (*structidx.Extractor, error) {
	opts := g.cfg.Options()
	if g.verbose {
		opts = append(opts, structidx.WithLogger(structidx.NewLogger(
			slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)))
	}
	return structidx.NewExtractor(opts...)
}

func (g *globalOptions) codec() (codec.Codec, error) {
	c, ok := codec.ByName(g.codecName)
	if !ok {
		return nil, fmt.Errorf("unknown codec %q", g.codecName)
	}
	return c, nil
}

func (g *globalOptions) print(w io.Writer, v any) error {
	c, err := g.codec()
	if err != nil {
		return err
	}
	return codec.Write(w, c, v, true)
}

// openFile maps a local file through a LocalStore rooted at its directory.
func openFile(ctx context.Context, path string) (docstore.Document, error) {
	doc, err := docstore.NewLocalStore(filepath.Dir(path)).Get(ctx, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return doc, nil
}

// openStore resolves a store location:
//
//	./dir                    local directory
//	s3://bucket/prefix       Amazon S3 (default credential chain)
//	minio://host:port/bucket/prefix  MinIO, credentials from MINIO_ACCESS_KEY and MINIO_SECRET_KEY
func openStore(ctx context.Context, location string) (docstore.Store, error) {
	scheme, rest, ok := strings.Cut(location, "://")
	if !ok {
		return docstore.NewLocalStore(location), nil
	}

	switch scheme {
	case "file":
		return docstore.NewLocalStore(rest), nil
	case "s3":
		bucket, prefix, _ := strings.Cut(rest, "/")
		return s3.New(ctx, bucket, s3.WithPrefix(prefix))
	case "minio":
		return openMinio(rest, os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"))
	default:
		return nil, fmt.Errorf("unsupported store scheme %q", scheme)
	}
}

func readEncoding(utf16 bool) structidx.RecordEncoding {
	if utf16 {
		return structidx.RecordUTF16
	}
	return structidx.RecordUTF8
}
