package main

import "github/frak-labs/go-smart-wallet/cmd"

func main() {
	cmd.Execute()
}
