// Package protocol holds Language Server Protocol payload types for the
// textDocument/selectionRange request and the value contract they share:
// structural equality, hashing and a stable textual form derived from an
// ordered field list.
package protocol
