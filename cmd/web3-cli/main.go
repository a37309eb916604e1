package main

import "web3-core/cmd/web3-cli/cmd"

func main() {
	cmd.Execute()
}
