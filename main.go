// cobweb is a small issue tracker that keeps its issues inside the repository.
package main

import (
	"fmt"
	"os"

	"cobweb/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
