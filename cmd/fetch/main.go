// Command fetch sends a single HTTP request through the fetch client and
// prints the result.
//
//	fetch -X POST --json '{"name":"gopher"}' --decode json https://api.example.com/users
//	fetch --download --checksum sha256:<hex> https://example.com/archive.tar.gz
//	fetch --upload ./report.csv -H 'Content-Type: text/csv' https://example.com/reports
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
