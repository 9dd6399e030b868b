package main

import (
	"github.com/vincentdavis/cycling-dynamics/cli"
)

func main() {
	cli.Execute()
}
