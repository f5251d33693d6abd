package storage

// Namespaced wraps a KV and prefixes every key. Each chat gets its own
// namespace so the per-visitor key layout (user_id, points_<id>, ...) stays
// exactly what the single-visitor core expects.
type Namespaced struct {
	kv     KV
	prefix string
}

// Namespace returns a view of kv where every key is prefixed with prefix.
func Namespace(kv KV, prefix string) *Namespaced {
	return &Namespaced{kv: kv, prefix: prefix}
}

func (n *Namespaced) Get(key string) (string, error) {
	return n.kv.Get(n.prefix + key)
}

func (n *Namespaced) Set(key, value string) error {
	return n.kv.Set(n.prefix+key, value)
}
