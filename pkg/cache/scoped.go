package cache

// ScopedKeyer prefixes every key produced by an inner Keyer. The CLI scopes
// Redis keys by project so several shows can share one server:
//
//	keyer := NewScopedKeyer(nil, "wallplan:arena-tour:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return ScopedKeyer{inner: inner, prefix: prefix}
}

func (k ScopedKeyer) PlanKey(wallID, inputHash string, opts PlanKeyOpts) string {
	return k.prefix + k.inner.PlanKey(wallID, inputHash, opts)
}
