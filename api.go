package depot

// Provider produces a value of type T on demand. Systems depend on providers rather
// than on the containers behind them.
type Provider[T any] interface {
	Provide() T
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc[T any] func() T

func (f ProviderFunc[T]) Provide() T {
	return f()
}

var _ Provider[*Query] = QueryProvider{}

// QueryProvider resolves a fresh Query over its world on every Provide.
type QueryProvider struct {
	world *World
	terms []Term
}

// Provides returns a Provider of queries built from the terms.
func (w *World) Provides(terms ...Term) QueryProvider {
	return QueryProvider{world: w, terms: terms}
}

func (p QueryProvider) Provide() *Query {
	return NewQuery(p.world, p.terms...)
}
