package main

import "github.com/shandysiswandi/healthmon/internal/cli"

func main() {
	cli.Execute()
}
