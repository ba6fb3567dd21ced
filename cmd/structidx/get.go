package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hupe1980/structidx"
)

type getOptions struct {
	record bool
	utf16  bool
}

type lookupResult struct {
	Path        string `json:"path"`
	Outcome     string `json:"outcome"`
	Value       any    `json:"value"`
	Speculative bool   `json:"speculative"`
}

func newGetCmd(g *globalOptions) *cobra.Command {
	o := &getOptions{}

	cmd := &cobra.Command{
		Use:   "get <file> <path>...",
		Short: "Print the values at one or more attribute paths",
		Long: `The get command indexes a document once and resolves every path against it.

Example:
  structidx get order.json customer.name total
  structidx get order.six customer.name --record
  structidx get order.json total --json`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, g, o, args[0], args[1:])
		},
	}
	cmd.Flags().BoolVar(&o.record, "record", false, "Read the file as an encoded record")
	cmd.Flags().BoolVar(&o.utf16, "utf16", false, "Record payload is UTF-16BE")
	return cmd
}

func runGet(cmd *cobra.Command, g *globalOptions, o *getOptions, file string, paths []string) error {
	ctx := cmd.Context()

	ex, err := g.extractor(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer ex.Close()

	doc, err := openFile(ctx, file)
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

	results := make([]lookupResult, 0, len(paths))
	for _, path := range paths {
		res, err := ix.Lookup(path)
		if err != nil {
			return err
		}
		r := lookupResult{Path: path, Outcome: res.Outcome.String(), Speculative: res.Speculative}
		if res.Found() {
			r.Value = res.Value.Any()
		}
		results = append(results, r)
	}

	if g.jsonOut {
		return g.print(cmd.OutOrStdout(), results)
	}
	return printResults(cmd.OutOrStdout(), results)
}

func printResults(w io.Writer, results []lookupResult) error {
	for _, r := range results {
		var err error
		if r.Outcome == "found" {
			_, err = fmt.Fprintf(w, "%s\t%v\n", r.Path, formatValue(r.Value))
		} else {
			_, err = fmt.Fprintf(w, "%s\t<%s>\n", r.Path, r.Outcome)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", x)
	default:
		return fmt.Sprint(x)
	}
}
