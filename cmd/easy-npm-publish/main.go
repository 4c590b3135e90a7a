package main

import (
	"os"

	"github.com/glitch452/easy-npm-publish/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
