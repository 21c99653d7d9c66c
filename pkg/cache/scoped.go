package cache

// ScopedKeyer prefixes every key of an inner Keyer, so several tenants or
// deployments can share one store without colliding.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "plt:v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner. A nil inner means DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(descHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(descHash, opts)
}
