package main

import "github.com/proofhq/proof/cmd"

func main() {
	cmd.Execute()
}
