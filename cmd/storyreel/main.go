package main

import "github.com/storyreel/storyreel/internal/cli"

func main() {
	cli.Main()
}
