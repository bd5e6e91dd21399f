/*
Package ports defines the driven-port interfaces of the Weir engine.

Adapters (file, memory, redis, http) implement these interfaces; the runtime
depends only on the abstractions. The package also exports contract test
suites so every adapter can prove it honors the interface semantics.
*/
package ports
