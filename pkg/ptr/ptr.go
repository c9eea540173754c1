package ptr

// New returns a pointer to v.
func New[T any](v T) *T { return &v }

// ValueOr returns *p, or def when p is nil. It is how optional request
// fields fall back to their defaults.
func ValueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
