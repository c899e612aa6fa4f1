package main

import (
	"os"

	"github.com/watplan/watplan/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
