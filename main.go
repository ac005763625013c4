// Package main is the entry point for the polymut CLI.
package main

import "gooze.dev/pkg/polymut/cmd"

func main() {
	cmd.Execute()
}
