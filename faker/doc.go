/*
Package faker expands dynamic-value placeholders inside stub bodies.

Placeholders are strings of the form @directive or @directive:args and
may appear anywhere in a string, map, or slice value; structures are
walked recursively and non-placeholder values pass through untouched.

Supported directives: @email, @name, @word, @sentence, @uuid, @bool,
@float, @timestamp, @date, @datetime, @randInt (optionally @randInt:N
for an N-digit value), and @randString (optionally @randString:N for N
characters).

Expansion is deterministic for a given seed, which keeps test assertions
stable:

	exp := faker.New(1)
	body := exp.Expand(map[string]any{"id": "@uuid", "owner": "@name"})
*/
package faker
