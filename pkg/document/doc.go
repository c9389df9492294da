/*
Package document provides the reference in-memory document tree the
interpreter mutates.

Trees are built from JSON page definitions (Decode), or programmatically
with Builder. The tree implements the ports.Document contract plus the
mutation/removal listener extensions, and can serialize itself back to HTML
with RenderHTML.
*/
package document
