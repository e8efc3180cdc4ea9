package main

import "github.com/invorya/libreria-client/internal/cli"

func main() {
	cli.Execute()
}
