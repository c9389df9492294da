/*
Package domain contains the core models for the dotpipe interpreter.

It defines the fundamental entities of the macro pipeline, such as the
dynamically-typed Value, the variable Scope, and the per-node Entry with its
Shells. This package is kept pure and free of external dependencies like I/O
or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Value: A tagged union {Absent, Number, Bool, Text}; all coercion of
    macro literals happens in Parse.
  - Scope: A mutable named-value store. Entries own one for their lifetime;
    shells own short-lived ones that merge back on close.
  - Entry: The registered state (scope + macro text) owned by one
    macro-bearing node.
  - Mutation: A structural record of a document side effect, suitable for
    streaming to clients.
*/
package domain
