package main

import "github.com/jhzhe/neutrino-alerts/internal/cli"

func main() {
	cli.Execute()
}
