package main

import "github.com/christiandt/electrolux-ac-cli/cmd/electrolux/cmd"

func main() {
	cmd.Execute()
}
