package main

import "github.com/FluidXR/fetchdroid/cmd"

func main() {
	cmd.Execute()
}
