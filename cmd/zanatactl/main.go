// Command zanatactl runs a single Zanata REST API operation and reports the
// result as JSON, for use from Ansible tasks, CI jobs and shell scripts.
//
// Usage:
//
//	ZANATA_USERNAME=me ZANATA_TOKEN=... zanatactl -o create_version --project-id P --version V
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/p-blackswan/zanatactl/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
