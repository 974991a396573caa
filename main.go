// Package main is the entry point for the epo application
package main

import (
	"github.com/gridops/epo/cmd"
)

func main() {
	cmd.Execute()
}
