package main

import "github.com/nordwind-labs/taskdeck/cmd"

func main() {
	cmd.Execute()
}
