package main

import "github.com/chaos-io/logokit/cli"

func main() {
	cli.Execute()
}
