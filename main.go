package main

import "riskcsv/cmd"

func main() {
	cmd.Execute()
}
