package main

import (
	"teamtune/cmd"
)

func main() {
	cmd.Execute()
}
