// Command structidx queries JSON documents through structural indexes.
//
//	structidx get order.json customer.name total
//	structidx explain order.json
//	structidx filter --store ./orders --path total --op gt --value 100
//	structidx encode order.json --out order.six --levels 8 --compress zstd
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
