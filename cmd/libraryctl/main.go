// Command libraryctl performs operator tasks against the library database:
// creating admin accounts, bulk-importing books and seeding demo data.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
