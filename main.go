package main

import "liveroll/cmd"

func main() {
	cmd.Execute()
}
