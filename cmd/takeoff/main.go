// Command takeoff measures floor plans from decoded drawing pages.
package main

import "github.com/tsawler/takeoff/internal/cli"

func main() {
	cli.Execute()
}
