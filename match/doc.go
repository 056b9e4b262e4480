/*
Package match decides whether an incoming request satisfies a stub.

Path patterns use the familiar router syntax: literal segments, :name
parameter captures, and a trailing *name wildcard that swallows the rest
of the path. Criteria combine a method and pattern with optional query
parameter and header requirements, all of which must hold for a stub to
match. Precedence between multiple matching stubs is the registry's
concern, not this package's.
*/
package match
