package main

import "venue-cli/cmd"

func main() {
	cmd.Execute()
}
