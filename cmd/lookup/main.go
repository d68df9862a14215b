// Command lookup serves the user lookup API and prepares its store.
//
//	lookup migrate          create the schema and seed the canonical users
//	lookup run              serve HTTP (alias: serve)
//	lookup --migrate        same as migrate
//	lookup --run            same as run
//	lookup route:list       print the route table
//	lookup graph:list       print the component graph
//
// Anything else prints usage and exits 0.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
