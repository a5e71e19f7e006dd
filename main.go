package main

import "thermal/cmd"

func main() {
	cmd.Execute()
}
