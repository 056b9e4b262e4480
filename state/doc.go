/*
Package state provides a small in-memory key-value store for stateful
stubs.

Resolvers that implement CRUD-style mock flows need somewhere to keep
what earlier requests created; a Store shared between stubs fills that
role. Seed data can be supplied at construction, and the store is safe
for concurrent use so parallel test requests behave.

	store, _ := state.New(state.Config{})
	reg.On("PUT", "/items/:id").RespondWith(func(req *standin.Request) (*response.Response, error) {
		store.Set(req.PathParams["id"], req.Body)
		return response.Empty(response.WithStatus(http.StatusNoContent)), nil
	})
*/
package state
