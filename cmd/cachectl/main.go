// Command cachectl inspects and maintains persisted cache snapshots and
// serves cache statistics, Prometheus metrics and health probes.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
