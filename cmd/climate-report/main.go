package main

import (
	"os"

	"github.com/couchcryptid/climate-report/internal/cli"
)

func main() {
	os.Exit(int(cli.Run()))
}
