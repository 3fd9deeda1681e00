package cache

// ScopedKeyer wraps a Keyer with a prefix so that several maps or server
// instances can share one backend.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "session:3f2a:")
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

// HTTPKey generates a prefixed key for fetched bytes.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// TerrainKey generates a prefixed key for a land mask.
func (k *ScopedKeyer) TerrainKey(source string, opts TerrainKeyOpts) string {
	return k.prefix + k.inner.TerrainKey(source, opts)
}

// RenderKey generates a prefixed key for a render artifact.
func (k *ScopedKeyer) RenderKey(inputHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(inputHash, opts)
}
