/*
Package dsl provides a fluent builder for programmatically constructing
graph schemas.

It lets developers define topologies in type-safe Go instead of external
JSON files, which is particularly useful for dynamic graph generation, unit
testing, and leveraging IDE autocompletion.

Example usage:

	package main

	import (
		"github.com/aretw0/weir/pkg/dsl"
	)

	func main() {
		b := dsl.New("my-flow")

		b.Add("tick", "inject").
			Set("payload", "hello").
			Set("interval_ms", 1000).
			To("out", "log", "data")

		b.Add("log", "debug")

		schema, err := b.Build()
		// ... persist schema or hand it to an engine's Load
		_ = schema
		_ = err
	}
*/
package dsl
