package main

import "github.com/tmih06/profile-stats/cmd"

func main() {
	cmd.Execute()
}
