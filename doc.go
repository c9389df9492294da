/*
Package dotpipe interprets inline macro pipelines: small, pipe-delimited
scripts embedded in document-node attributes instead of imperative
event-handler code.

A macro is a sequence of segments separated by "|". Each segment is one
operation: assign a variable, set node content or attributes, open a nested
shell scope, or invoke a verb:

	&count:0|inc:count:5|$out:!count

The Engine binds an interpreter to a document tree, registers an entry for
every macro-bearing node, and runs pipelines on demand:

	eng, err := dotpipe.FromDefinition(pageJSON)
	if err != nil { ... }
	err = eng.Run(ctx, "save-button")

Hosts extend the verb table through eng.Verbs(), observe execution through
lifecycle hooks, and swap in their own document, fetcher or scope store
implementations via the ports package.
*/
package dotpipe
