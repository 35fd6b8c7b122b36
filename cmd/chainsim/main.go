package main

import "github.com/tevinokafor/chainsim/cmd/chainsim/cli"

func main() {
	cli.Execute()
}
