//go:build darwin

package main

import "github.com/Danondso/keyweave/backend/quartz"

// runMain hands the main thread to the Quartz run-loop machinery and
// runs the application body on another goroutine.
func runMain(body func()) {
	quartz.Main(body)
}
