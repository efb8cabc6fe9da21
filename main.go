package main

import "class-sync/cmd"

func main() {
	cmd.Execute()
}
