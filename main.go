package main

import (
	"github.com/evcc-io/onstar/cmd"
)

func main() {
	cmd.Execute()
}
