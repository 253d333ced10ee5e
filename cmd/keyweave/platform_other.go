//go:build !linux && !darwin

package main

// runMain runs the application body directly; newEngine will report
// the missing backend for this platform.
func runMain(body func()) {
	body()
}
