package main

import "autosync/cmd"

func main() {
	cmd.Execute()
}
