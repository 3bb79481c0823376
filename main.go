package main

import "flow_tui/internal/cmd"

func main() {
	cmd.Execute()
}
