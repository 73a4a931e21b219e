package main

import "github.com/famomatic/fmtrank/internal/cli"

func main() {
	cli.Execute()
}
