// Package main is the entry point for the jlower CLI.
package main

import "jlower.dev/pkg/jlower/cmd"

func main() {
	cmd.Execute()
}
