package main

import "tacmap/internal/cmd"

func main() {
	cmd.Execute()
}
