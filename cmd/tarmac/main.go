package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/viant/tarmac"
	"github.com/viant/tarmac/internal/tui"
)

func main() {
	configURL := flag.String("config", "", "configuration file location (YAML)")
	traceFile := flag.String("trace", "", "write OpenTelemetry spans to this file")
	flag.Parse()

	options := []tarmac.Option{}
	if *configURL != "" {
		config, err := tarmac.LoadConfig(context.Background(), *configURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tarmac: %v\n", err)
			os.Exit(1)
		}
		options = append(options, tarmac.WithConfig(config))
	}
	if *traceFile != "" {
		options = append(options, tarmac.WithTracing("tarmac", "0.1.0", *traceFile))
	}

	service := tarmac.New(options...)
	defer service.Shutdown()

	program := tea.NewProgram(tui.NewApp(service), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tarmac: %v\n", err)
		os.Exit(1)
	}
}
