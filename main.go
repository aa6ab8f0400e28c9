package main

import (
	"rx-solvency-snapshot/internal/cli"
)

func main() {
	cli.Execute()
}
