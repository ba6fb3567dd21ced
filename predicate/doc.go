// Package predicate evaluates equality and range predicates over JSON
// documents using structural indexes.
//
// A Predicate is built from Filters and combinators:
//
//	p := predicate.And(
//	    predicate.Less("age", model.Number(27)),
//	    predicate.Equal("address.city", model.String("Berlin")),
//	)
//
// An Evaluator applies it to a batch of documents, or to documents fetched
// from a docstore.Store, and returns the matching positions as a roaring
// bitmap:
//
//	ev := predicate.NewEvaluator(ex, predicate.WithParallelism(8))
//	hits, err := ev.Scan(ctx, store, names, p)
//	for it := hits.Iterator(); it.HasNext(); {
//	    fmt.Println(names[it.Next()])
//	}
//
// Comparisons never match a missing path or an object or array value.
// Numbers, strings and booleans only compare against operands of the same kind.
package predicate
