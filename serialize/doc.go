// Package serialize converts a *graphdoc.Graph to and from the JSON graph
// document schema: a stable, versioned wire format carrying
// node filter ids, positions, parameter overrides, and typed connections.
//
// Loading a document cannot instantiate filters on its own — a document
// names filters by id string ("gaussian_blur"), not by Go type — so
// Load takes a Resolver that looks the id up in whatever registry the
// caller maintains (engine.Registry in this module). Document is kept a
// pure data carrier; turning filter_id strings back into live filter
// instances is the caller's job (a registry lookup), not the document's.
package serialize

// Version is the current graph document schema version.
const Version = "1.0.0"
