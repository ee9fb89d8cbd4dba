package main

import "github.com/gaurav-prasanna/reviewpipe/cmd"

func main() {
	cmd.Execute()
}
