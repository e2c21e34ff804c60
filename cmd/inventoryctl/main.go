// inventoryctl is a command-line client for the inventory API.
//
//	inventoryctl materials list [-q text]
//	inventoryctl materials add -code PINE -name "Pine board" -stock 120 -unit m -cost 4.5
//	inventoryctl materials stock -code PINE -delta -10
//	inventoryctl products list
//	inventoryctl products add -code CHAIR -name Chair -price 79 -bom PINE:4,SCREW:16
//	inventoryctl products rm -code CHAIR
//	inventoryctl production suggestions
//	inventoryctl production capacity [-code CHAIR]
//
// INVENTORY_URL (default http://localhost:8081) and INVENTORY_TOKEN select
// the server and credentials.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/stain603/industrial-inventory-manager/internal/client"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintln(stderr, "usage: inventoryctl materials|products|production <command> [flags]")
		return 2
	}

	baseURL := os.Getenv("INVENTORY_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8081"
	}
	c := client.New(baseURL, os.Getenv("INVENTORY_TOKEN"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := &command{api: c, out: stdout}
	if err := cmd.dispatch(ctx, args[0], args[1], args[2:]); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}
