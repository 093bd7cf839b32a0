package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"studenthub-server-go/internal/bootstrap"
)

func main() {
	configPath := flag.String("config", "", "path to the yaml configuration file")
	flag.Parse()

	if err := bootstrap.Run(context.Background(), *configPath); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "studenthub-server failed: %v\n", err)
		os.Exit(1)
	}
}
