// Command ivory manages Ivory tables from the command line.
package main

import "github.com/mesh-intelligence/ivory/internal/cli"

func main() {
	cli.Execute()
}
