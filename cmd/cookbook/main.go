// Command cookbook lists, renders and runs the oxy-shade demo scenes.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
