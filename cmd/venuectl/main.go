// venuectl is the operator CLI for the venue catalog API.
package main

import (
	"os"

	"venuecatalog/backend/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
