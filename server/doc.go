/*
Package server runs a stub registry as a standalone HTTP mock server.

The gin engine carries only the admin surface; every other request
falls through to the registry, which keeps recording, query/header
narrowing, and registration-order precedence identical to in-process
use and lets overlapping stub patterns coexist without route
conflicts. Stubs registered as network errors cause
the server to hijack and close the connection, so clients observe a
transport failure rather than a status code.

An admin surface is mounted under /_standin:

	GET    /_standin/stubs     list registrations and hit counts
	GET    /_standin/requests  list recorded requests
	DELETE /_standin/requests  clear recordings and hit counts

Run blocks until the context is canceled, then shuts the server down
gracefully.
*/
package server
