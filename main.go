package main

import "audio-loader/cmd"

func main() {
	cmd.Execute()
}
