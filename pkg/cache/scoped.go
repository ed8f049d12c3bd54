package cache

// ScopedKeyer wraps a Keyer with a prefix so that several users of one
// Redis or MongoDB backend cannot read each other's entries.
//
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// HTTPKey generates a prefixed key for fetched documents.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// BufferKey generates a prefixed key for buffer results.
func (k *ScopedKeyer) BufferKey(inputHash string, opts BufferKeyOpts) string {
	return k.prefix + k.inner.BufferKey(inputHash, opts)
}

// GraphKey generates a prefixed key for topology graphs.
func (k *ScopedKeyer) GraphKey(inputHash string, opts BufferKeyOpts) string {
	return k.prefix + k.inner.GraphKey(inputHash, opts)
}
