package respool

// Resolver maps an I/O task identifier, typically a file path, to the
// resource key whose semaphore throttles it. All identifiers that resolve to
// the same key contend for the same permits.
//
// Implementations must be safe for concurrent use. A resolver that fails
// causes the submission to be rejected with *ErrResolve before any permit is
// taken.
type Resolver interface {
	ResolveKey(identifier string) (string, error)
}

// ResolverFunc adapts a plain function to the Resolver interface.
type ResolverFunc func(identifier string) (string, error)

// ResolveKey implements Resolver.
func (f ResolverFunc) ResolveKey(identifier string) (string, error) {
	return f(identifier)
}

// Identity resolves every identifier to itself, giving each distinct
// identifier its own throttling domain. It is the default resolver.
var Identity Resolver = ResolverFunc(func(identifier string) (string, error) {
	return identifier, nil
})
