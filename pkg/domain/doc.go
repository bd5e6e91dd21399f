/*
Package domain contains the core domain models for the Weir dataflow engine.

It defines the fundamental entities of the graph runtime, such as node
manifests, node and edge instances, the persisted graph schema, and the
packets that flow along edges. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture
principles.

# Key Entities

  - NodeManifest: the registration-time description of a node type (ports, settings schema).
  - NodeInstance / EdgeInstance: the persisted topology elements.
  - GraphSchema: the single persisted source of truth for a graph.
  - DataPacket: an immutable value flowing along one edge between two ports.
  - ErrorPacket: a structurally distinguished failure value.
  - Result: the tagged outcome of a node firing (outputs or an ErrorPacket).
*/
package domain
