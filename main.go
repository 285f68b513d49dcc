package main

import "github.com/mikedotJS/loggy/internal/cmd"

func main() {
	cmd.Execute()
}
