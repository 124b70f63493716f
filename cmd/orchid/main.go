// Command orchid is the command-line front end for the Orchid language:
// it parses, checks, formats, and compiles .orc files.
package main

import "os"

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
