// Command common-items finds a set of items simultaneously active in a
// minimum number of stores, streaming the item/location relation in
// bounded-memory chunks.
package main

import (
	"fmt"
	"os"

	"github.com/retailops/common-items/internal/cli"
)

func main() {
	if err := cli.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
