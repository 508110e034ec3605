// Command neba inspects the parameters and datasets of a demonstration program
// built on the neba framework.
package main

import (
	"os"
)

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}
