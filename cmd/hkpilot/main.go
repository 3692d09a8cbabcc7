package main

import "github.com/hyperk/hkpilot/cmd/hkpilot/internal"

func main() {
	internal.Execute()
}
