package main

import "github.com/alexiusacademia/rcbeam/cmd"

func main() {
	cmd.Execute()
}
