package main

import "tax-estimator/cmd"

func main() {
	cmd.Execute()
}
