package main

import "github.com/tenbis-tools/tenbuy/cmd"

func main() {
	cmd.Execute()
}
