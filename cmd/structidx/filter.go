package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/hupe1980/structidx"
	"github.com/hupe1980/structidx/docstore"
	"github.com/hupe1980/structidx/predicate"
)

type filterOptions struct {
	store       string
	prefix      string
	path        string
	op          string
	values      []string
	parallelism int
	patterns    string
	record      bool
	utf16       bool
}

func newFilterCmd(g *globalOptions) *cobra.Command {
	o := &filterOptions{}

	cmd := &cobra.Command{
		Use:   "filter [name]...",
		Short: "Print the documents of a store that match a predicate",
		Long: `The filter command evaluates one comparison against documents in a store
and prints the names of the matching documents. Without names, every document
under --prefix is evaluated.

Stores are local directories, s3://bucket/prefix or minio://host:port/bucket/prefix.

Example:
  structidx filter --store ./people --path age --op lt --value 27
  structidx filter --store s3://bucket/orders --path status --op in --value open --value held
  structidx filter --store ./people --path address.city --op exists --patterns .patterns`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd, g, o, args)
		},
	}
	cmd.Flags().StringVar(&o.store, "store", ".", "Document store location")
	cmd.Flags().StringVar(&o.prefix, "prefix", "", "Only evaluate documents under this prefix")
	cmd.Flags().StringVar(&o.path, "path", "", "Attribute path (required)")
	cmd.Flags().StringVar(&o.op, "op", "eq", "Operator: eq, ne, lt, lte, gt, gte, in, contains, exists")
	cmd.Flags().StringArrayVar(&o.values, "value", nil, "Operand; repeat for in")
	cmd.Flags().IntVar(&o.parallelism, "parallelism", 0, "Documents evaluated at once (default GOMAXPROCS)")
	cmd.Flags().StringVar(&o.patterns, "patterns", "", "Store key of a pattern cache snapshot to load and save")
	cmd.Flags().BoolVar(&o.record, "record", false, "Documents are encoded records")
	cmd.Flags().BoolVar(&o.utf16, "utf16", false, "Record payloads are UTF-16BE")
	_ = cmd.MarkFlagRequired("path")
	return cmd
}

func runFilter(cmd *cobra.Command, g *globalOptions, o *filterOptions, names []string) error {
	ctx := cmd.Context()

	p, err := predicate.Parse(o.path, o.op, o.values...)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, o.store)
	if err != nil {
		return err
	}

	snapshot := o.patterns
	if snapshot == "" {
		snapshot = g.cfg.PatternCache.Snapshot
	}

	if len(names) == 0 {
		names, err = store.List(ctx, o.prefix)
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", o.store, err)
		}
		if snapshot != "" {
			names = slices.DeleteFunc(names, func(n string) bool { return n == snapshot })
		}
	}

	ex, err := g.extractor(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer ex.Close()

	if snapshot != "" {
		if err := loadPatterns(ctx, store, snapshot, ex.PatternCache()); err != nil {
			return err
		}
	}

	optFns := []predicate.Option{
		predicate.WithParallelism(o.parallelism),
		predicate.WithResourceController(structidx.NewResourceController(g.cfg.Resources)),
	}
	if o.record {
		optFns = append(optFns, predicate.WithRecords(readEncoding(o.utf16)))
	}

	hits, err := predicate.NewEvaluator(ex, optFns...).Scan(ctx, store, names, p)
	if err != nil {
		return err
	}

	matched := make([]string, 0, hits.GetCardinality())
	for it := hits.Iterator(); it.HasNext(); {
		matched = append(matched, names[it.Next()])
	}

	if snapshot != "" {
		if err := savePatterns(ctx, store, snapshot, ex.PatternCache()); err != nil {
			return err
		}
	}

	if g.jsonOut {
		return g.print(cmd.OutOrStdout(), matched)
	}
	for _, name := range matched {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

func loadPatterns(ctx context.Context, store docstore.Store, key string, cache *structidx.PatternCache) error {
	if cache == nil {
		return nil
	}
	doc, err := store.Get(ctx, key)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	defer doc.Close()

	if _, err := cache.ReadFrom(bytes.NewReader(doc.Bytes())); err != nil {
		return fmt.Errorf("failed to load pattern snapshot %s: %w", key, err)
	}
	return nil
}

func savePatterns(ctx context.Context, store docstore.Store, key string, cache *structidx.PatternCache) error {
	if cache == nil {
		return nil
	}
	var buf bytes.Buffer
	if _, err := cache.WriteTo(&buf); err != nil {
		return err
	}
	return store.Put(ctx, key, buf.Bytes())
}
