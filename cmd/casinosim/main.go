// Command casinosim runs the casino floor simulation and inspects its event journal.
package main

import (
	"github.com/tebeka/atexit"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
