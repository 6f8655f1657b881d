package main

import "github.com/rubikabot/ingestcore/cmd"

func main() {
	cmd.Execute()
}
