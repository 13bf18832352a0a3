package main

import "github.com/pfrederiksen/espn-lines/internal/cli"

func main() {
	cli.Execute()
}
