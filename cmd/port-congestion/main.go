package main

import (
	"os"

	"github.com/ngmaloney/port-congestion/internal/cli"
)

func main() {
	os.Exit(int(cli.Run()))
}
