package domain

import "errors"

// ErrUnknownNodeType is returned when instantiating a type id that was never registered.
var ErrUnknownNodeType = errors.New("unknown node type")

// ErrManifestInvalid is returned when a manifest fails structural validation at registration.
var ErrManifestInvalid = errors.New("invalid manifest")

// ErrNodeNotFound is returned when a node id is absent from the loaded schema.
var ErrNodeNotFound = errors.New("node not found")

// ErrSchemaNotFound is returned by stores when no topology has been persisted yet.
var ErrSchemaNotFound = errors.New("schema not found")

// ErrNoGraphLoaded is returned by runtime operations that require a loaded graph.
var ErrNoGraphLoaded = errors.New("no graph loaded")
