// Command gosolve solves triangular systems of equations described in
// YAML or JSON, and serves the gosolve tools over HTTP.
//
// Usage:
//
//	gosolve solve system.yaml
//	gosolve serve --port 8080
//	gosolve schema
package main

import "os"

func main() {
	os.Exit(Main())
}
