package cache

// prefixKeyer namespaces the keys of another Keyer.
type prefixKeyer struct {
	Keyer
	prefix string
}

// WithPrefix returns a Keyer whose keys are those of inner behind prefix.
// Prefixing by release version keeps a shared backend from serving
// layouts computed by an older engine. A nil inner uses [DefaultKeyer].
func WithPrefix(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return prefixKeyer{Keyer: inner, prefix: prefix}
}

func (k prefixKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.Keyer.LayoutKey(graphHash, opts)
}

func (k prefixKeyer) PartitionKey(graphHash string, opts PartitionKeyOpts) string {
	return k.prefix + k.Keyer.PartitionKey(graphHash, opts)
}
