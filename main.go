package main

import "github.com/intelfx/bfs/cmd"

func main() {
	cmd.Execute()
}
