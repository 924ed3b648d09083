// Command contacts manages a local contact book.
package main

import (
	"os"

	"github.com/roach88/contactbook/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
