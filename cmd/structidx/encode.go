package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/structidx"
)

type encodeOptions struct {
	out      string
	utf16    bool
	levels   int
	compress string
}

func newEncodeCmd(g *globalOptions) *cobra.Command {
	o := &encodeOptions{}

	cmd := &cobra.Command{
		Use:   "encode <file>",
		Short: "Encode a JSON document as a length-prefixed record",
		Long: `The encode command writes a record holding the document payload and,
with --levels, a precomputed structural index that get and filter reuse
instead of scanning.

Example:
  structidx encode order.json --out order.six
  structidx encode order.json --out order.six --levels 8 --compress zstd
  structidx encode order.json --out order.six --utf16`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(cmd, o, args[0])
		},
	}
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "Output file (required)")
	cmd.Flags().BoolVar(&o.utf16, "utf16", false, "Encode the payload as UTF-16BE")
	cmd.Flags().IntVar(&o.levels, "levels", 0, "Embed an index with this many levels (0 for none)")
	cmd.Flags().StringVar(&o.compress, "compress", "none", "Index compression: none, lz4, zstd")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func runEncode(cmd *cobra.Command, o *encodeOptions, file string) error {
	compression, err := structidx.ParseCompression(o.compress)
	if err != nil {
		return err
	}

	doc, err := openFile(cmd.Context(), file)
	if err != nil {
		return err
	}
	defer doc.Close()

	rec, err := structidx.EncodeRecord(string(doc.Bytes()), structidx.RecordOptions{
		Encoding:    readEncoding(o.utf16),
		IndexLevels: o.levels,
		Compression: compression,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", file, err)
	}

	if err := os.WriteFile(o.out, rec, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", o.out, len(rec))
	return nil
}
