package main

import "github.com/mikematt33/gitgrade/internal/cli"

func main() {
	cli.Execute()
}
