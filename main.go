package main

import "simples-mirror/cmd"

func main() {
	cmd.Execute()
}
