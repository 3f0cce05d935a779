//go:build windows

// Windows service wrapper built on github.com/kardianos/service, so the
// server can run as a background service with proper Start/Stop handling.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kardianos/service"
)

// program implements service.Interface by delegating to run().
type program struct {
	cancel context.CancelFunc
	exit   chan int
}

func (p *program) Start(service.Service) error {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.exit = make(chan int, 1)

	go func() {
		p.exit <- run(ctx)
	}()
	return nil
}

func (p *program) Stop(service.Service) error {
	p.cancel()
	select {
	case <-p.exit:
		return nil
	case <-time.After(30 * time.Second):
		return fmt.Errorf("timeout waiting for service to stop")
	}
}

func serviceConfig() *service.Config {
	return &service.Config{
		Name:        "PromptWizard",
		DisplayName: "Prompt Wizard Service",
		Description: "Form-driven prompt generator backend for AI image models",
		Option: service.KeyValue{
			"StartType": "automatic",
		},
	}
}

// RunAsService runs the application under the service manager. Returns
// false when running interactively so main falls through to foreground
// mode.
func RunAsService() (bool, error) {
	s, err := service.New(&program{}, serviceConfig())
	if err != nil {
		return false, fmt.Errorf("failed to create service: %w", err)
	}
	if service.Interactive() {
		return false, nil
	}
	if err := s.Run(); err != nil {
		return true, fmt.Errorf("service run failed: %w", err)
	}
	return true, nil
}

// HandleServiceCommand dispatches install/uninstall/start/stop/restart
// subcommands. Returns true when a command was handled.
func HandleServiceCommand(args []string) bool {
	if len(args) < 2 {
		return false
	}

	s, err := service.New(&program{}, serviceConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var action func() error
	switch args[1] {
	case "install":
		action = s.Install
	case "uninstall", "remove":
		action = s.Uninstall
	case "start":
		action = s.Start
	case "stop":
		action = s.Stop
	case "restart":
		action = s.Restart
	case "status":
		status, err := s.Status()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		switch status {
		case service.StatusRunning:
			fmt.Println("Service is running")
		case service.StatusStopped:
			fmt.Println("Service is stopped")
		default:
			fmt.Println("Service status unknown")
		}
		return true
	default:
		return false
	}

	if err := action(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Service %s completed\n", args[1])
	return true
}
