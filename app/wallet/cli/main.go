// This program provides a wallet for creating keys and talking to a node.
package main

import "github.com/blocksmith/blocksmith/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
