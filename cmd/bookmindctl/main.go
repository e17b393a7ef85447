package main

import "github.com/princeprakhar/bookmind/cmd/bookmindctl/command"

func main() {
	command.Execute()
}
