package main

import "github.com/joyas-pwa/joyas-api/internal/cli"

func main() {
	cli.Execute()
}
