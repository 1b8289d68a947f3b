package main

import "github.com/agentic-research/nestree/cmd"

func main() {
	cmd.Execute()
}
