//go:build !windows

// Service wrapper stubs for non-Windows platforms.
package main

// RunAsService is a no-op outside Windows; the application runs in the
// foreground.
func RunAsService() (bool, error) {
	return false, nil
}

// HandleServiceCommand is a no-op outside Windows.
func HandleServiceCommand(args []string) bool {
	return false
}
