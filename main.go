package main

import "github.com/dispatchlab/opsim/cmd"

func main() {
	cmd.Execute()
}
