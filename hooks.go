package callcache

// Hooks lightweight callbacks for cache outcomes.
// Implementations MUST be cheap and non-blocking; they run inside Call.
type Hooks interface {
	// Stored entry accepted by the policy and returned.
	Hit(key string)

	// No entry under key.
	Miss(key string)

	// An entry existed but was rejected.
	// reason ∈ {"corrupt", "no_timestamp", "min_timestamp", "last_modified",
	// "always", "session", "daily", "weekly"}
	Stale(key, reason string)

	// A freshly computed value was written.
	Stored(key string)

	// Entries were deleted by InvalidateKey/InvalidateArgs (prefix is the key)
	// or InvalidateAll (prefix is "name(").
	Invalidated(prefix string, removed int)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Hit(string)              {}
func (NopHooks) Miss(string)             {}
func (NopHooks) Stale(string, string)    {}
func (NopHooks) Stored(string)           {}
func (NopHooks) Invalidated(string, int) {}
