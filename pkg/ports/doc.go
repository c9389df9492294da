/*
Package ports defines the driven ports (interfaces) for the dotpipe
interpreter.

These interfaces decouple the engine from external implementations, allowing
it to work against any document representation, network layer, or
persistence backend.

# Key Interfaces

  - Document / Node: Lookup and mutation primitives over the host's tree.
  - Fetcher: The network primitive backing the ajax verb.
  - ScopeStore: Persistence for entry scopes (memory, redis).
  - PageLoader: Source of raw page definitions (memory, loam).
*/
package ports
