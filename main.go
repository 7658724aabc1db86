package main

import "github.com/plancal/plancal/cmd"

func main() {
	cmd.Execute()
}
