package main

import "metricsbridge/internal/cli"

func main() {
	cli.Execute()
}
