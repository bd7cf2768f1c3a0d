package main

import "github.com/tessro/groove/internal/cli"

func main() {
	cli.Execute()
}
