package main

import "github.com/mdrysdale/cgtcalc/cmd"

func main() {
	cmd.Execute()
}
