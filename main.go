package main

import (
	"github.com/metagov/dao-governance-surfaces/cmd"
)

func main() {
	cmd.Execute()
}
