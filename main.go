package main

import "github.com/dotcommander/geolint/cmd"

func main() {
	cmd.Execute()
}
