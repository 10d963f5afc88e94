package main

import "github.com/faraday-ai/faraday-dashboard/cmd"

func main() {
	cmd.Execute()
}
