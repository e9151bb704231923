package main

import "github.com/rustyeddy/daybook/internal/cli"

func main() {
	cli.Execute()
}
