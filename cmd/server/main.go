package main

import "remedify/cmd/cli"

func main() {
	cli.Execute()
}
