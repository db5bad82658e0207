package main

import "github.com/Rorical/MultiChat/cmd"

func main() {
	cmd.Execute()
}
