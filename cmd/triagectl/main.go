// triagectl runs the ticket triage pipeline and inspects its reference data from the shell.
//
// Usage:
//
//	triagectl invoke --ticket "<text>" [--order-id ORD1234] [--debug]
//	triagectl classify "<text>"
//	triagectl rules
//	triagectl orders get <order_id>
//	triagectl orders search [--email <addr>] [--q <text>]
//	triagectl orders seed
//	triagectl hash-secret <secret>
package main

import (
	"fmt"
	"os"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := newRootCmd(newCLI()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
