// Command gridctl shows, exports and manages the modes
// of data grids over JSON data files.
//
// Usage:
//
//	gridctl show orders.json --grid orders.yaml --sort total:desc
//	gridctl export orders.json --out orders.csv --delimiter ';'
//	gridctl modes save "Open orders" orders.json --param status=open
//	gridctl modes list orders.json
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
