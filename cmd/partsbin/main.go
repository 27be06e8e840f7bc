// Command partsbin manages a drone parts inventory from the terminal.
package main

import "github.com/mesh-intelligence/partsbin/internal/cli"

func main() {
	cli.Execute()
}
