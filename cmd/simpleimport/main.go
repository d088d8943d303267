// # cmd/simpleimport/main.go
package main

import (
	"os"

	"simpleimport/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
