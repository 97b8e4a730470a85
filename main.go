package main

import "github.com/notargets/quadfe/cmd"

func main() {
	cmd.Execute()
}
