/*
Package weir is a dataflow graph execution runtime: it loads a declarative,
versioned description of a directed graph of typed processing units,
instantiates live implementations from a node registry, and fires them from
graph entry points or from asynchronous external events routed through a
distributed Trigger Bus.

The root package is a thin facade over the building blocks:

  - pkg/domain: schema, packets, tagged results, runtime events.
  - pkg/graph: the derived adjacency model.
  - pkg/registry: node type registration and instantiation.
  - pkg/ports: the node execution contract and adapter interfaces.
  - pkg/bus: the Trigger Bus envelope over an abstract broadcaster.
  - pkg/adapters/...: file, memory, redis and http bindings.
  - internal/runtime: the engine itself.

Most consumers only need New:

	rt, err := weir.New(
		weir.WithTopologyFile("data/flow.json"),
		weir.WithRedisBroker("localhost:6379"),
	)
*/
package weir
