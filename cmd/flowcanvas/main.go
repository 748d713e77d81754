// Command flowcanvas serves an interactive diagram over HTTP and converts or
// inspects diagram files.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
