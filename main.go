package main

import "github.com/twiced-technology-gmbh/projtrack/cmd"

func main() {
	cmd.Execute()
}
