// Package memory provides process-local implementations of the domain
// repositories. They keep the same conditional-update semantics as the
// PostgreSQL implementations and hand out copies, never internal pointers.
package memory
