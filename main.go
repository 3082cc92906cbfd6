package main

import "baneslab/guildkeys/cmd"

func main() {
	cmd.Execute()
}
