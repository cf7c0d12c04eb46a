package main

import "github.com/docdrop/backend/internal/cli"

func main() {
	cli.Execute()
}
