// Package contributor implements the immutable configuration-source tree at
// the heart of config data resolution.
//
// Each node wraps one imported document (or a structural root, an initial
// import, or a pre-existing property source) together with its activation
// predicate and its list of further imports. The tree is persistent: a node
// is never mutated in place. State transitions — binding a freshly loaded
// document's config.* properties, attaching resolved children for an import
// phase — produce a replacement node, and WithReplacement rebuilds the path
// to the root while sharing every untouched subtree. In-flight iterations
// over an earlier snapshot therefore stay valid.
//
// Import processing is two-phased. Before profiles are known, every
// contributor without an activation predicate is processed to quiescence.
// Once the activation context is frozen, contributors gated on profiles or
// cloud platform join in, and the tree grows again until no active
// contributor has unprocessed imports.
//
// The binder built over the tree iterates sources in precedence order:
// profile-specific children first, then base children, then the node
// itself. Within that order the first source defining a name wins, which
// yields the documented override semantics (profile documents beat base
// documents, imported documents beat their importer, earlier-declared roots
// beat later ones).
package contributor
