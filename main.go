// busqueda finds files by loosely matching their names and copies them into
// a single folder on the desktop.
package main

import (
	"fmt"
	"os"

	"github.com/jparise/busqueda/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
