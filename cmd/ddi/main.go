package main

import (
	"github.com/rxcheck/ddi/internal/cli"
)

func main() {
	cli.Execute()
}
