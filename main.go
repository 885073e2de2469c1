package main

import "github.com/xangma/sciama-vscode/cmd"

func main() {
	cmd.Execute()
}
