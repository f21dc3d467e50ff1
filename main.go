package main

import (
	"github.com/coincortex/coincortex/internal/cli"
)

func main() {
	cli.Run()
}
