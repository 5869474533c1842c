package main

import "github.com/kvmirror/kvmirror/cmd"

func main() {
	cmd.Execute()
}
