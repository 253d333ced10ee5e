//go:build linux

package main

// runMain runs the application body directly; Linux has no main
// thread requirement.
func runMain(body func()) {
	body()
}
