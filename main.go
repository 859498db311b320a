package main

import "github.com/chriserin/md2docx/cmd"

func main() {
	cmd.Execute()
}
