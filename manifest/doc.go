/*
Package manifest loads declarative stub definitions from files and
registers them on a registry.

Two formats are supported, selected by file extension. HCL files carry
stub blocks:

	stub "GET" "/users/:id" {
	  status = 200
	  headers = { "X-Source" = "manifest" }
	  body = {
	    id    = "@uuid"
	    email = "@email"
	  }
	}

	stub "GET" "/flaky" {
	  network_error = true
	}

JSON files carry an array of the same shape with method, path, status,
headers, body, query, match_headers, network_error, and delay_ms keys.

Load accepts a single file or a directory, which is walked recursively
for .hcl and .json files. Apply registers the loaded stubs: string
bodies are served as text/plain, any other body value is JSON-encoded,
and when an Expander is supplied @directive placeholders in the body are
expanded per request.
*/
package manifest
