package main

import "github.com/fakeyudi/synctank/cmd"

func main() {
	cmd.Execute()
}
