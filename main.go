package main

import "salescope/cmd"

func main() {
	cmd.Execute()
}
