package main

import "github.com/pstuifzand/tracediff/cmd/tracediff/cmd"

func main() {
	cmd.Execute()
}
