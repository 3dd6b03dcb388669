package main

import "github.com/repkit/repscore/cmd"

func main() {
	cmd.Execute()
}
