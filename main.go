package main

import (
	"os"

	"smoke_testing/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
