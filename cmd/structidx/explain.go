package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hupe1980/structidx"
)

func newExplainCmd(g *globalOptions) *cobra.Command {
	o := &getOptions{}

	cmd := &cobra.Command{
		Use:   "explain <file>",
		Short: "Print the structural index of a document level by level",
		Long: `The explain command shows the bitmap counts and, for each nesting level,
the colon offsets and the keys they belong to.

Example:
  structidx explain order.json
  structidx explain order.json --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(cmd, g, o, args[0])
		},
	}
	cmd.Flags().BoolVar(&o.record, "record", false, "Read the file as an encoded record")
	cmd.Flags().BoolVar(&o.utf16, "utf16", false, "Record payload is UTF-16BE")
	return cmd
}

func runExplain(cmd *cobra.Command, g *globalOptions, o *getOptions, file string) error {
	ex, err := g.extractor(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer ex.Close()

	doc, err := openFile(cmd.Context(), file)
	if err != nil {
		return err
	}
	defer doc.Close()

	var ix *structidx.Index
	if o.record {
		ix, err = ex.IndexRecord(doc.Bytes(), readEncoding(o.utf16))
	} else {
		ix, err = ex.Index(doc.Bytes())
	}
	if err != nil {
		return fmt.Errorf("failed to index %s: %w", file, err)
	}
	defer ix.Close()

	e, err := ix.Explain()
	if err != nil {
		return err
	}
	if g.jsonOut {
		return g.print(cmd.OutOrStdout(), e)
	}
	return printExplanation(cmd.OutOrStdout(), e)
}

func printExplanation(w io.Writer, e structidx.Explanation) error {
	fmt.Fprintf(w, "units: %d  words: %d  store: %s\n", e.Units, e.Words, e.Store)
	fmt.Fprintf(w, "quotes: %d  braces: %d/%d  backslashes: %d\n", e.Quotes, e.LeftBraces, e.RightBraces, e.Backslashes)
	fmt.Fprintf(w, "max depth: %d  dropped: %d  unmatched: %d open, %d close\n\n",
		e.MaxDepth, e.Dropped, e.UnmatchedOpen, e.UnmatchedClose)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LEVEL\tCOLONS\tKEYS")
	for _, l := range e.Levels {
		if l.Count == 0 {
			continue
		}
		entries := make([]string, len(l.Colons))
		for i, c := range l.Colons {
			entries[i] = fmt.Sprintf("%s@%d", l.Keys[i], c)
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\n", l.Level, l.Count, strings.Join(entries, " "))
	}
	return tw.Flush()
}
