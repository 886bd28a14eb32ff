// Command stockbook manages a shop inventory and a lending catalog kept in
// JSON files, from one-shot subcommands, an interactive menu or an HTTP API.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
