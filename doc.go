// Package callcache memoizes expensive, deterministic remote lookups (KEGG,
// NCBI style APIs) behind a staleness policy.
//
// Components:
//   - Backend[V]/Store[V]: scoped entry storage. Volatile keeps values by
//     reference in a MemoryStore; Serialized frames them through a Codec[V]
//     onto a byte Provider (SQLite file, Redis, BigCache).
//   - Entry[V]: value + creation Stamp (+ optional expiry, not consulted yet).
//   - Policy: decides freshness from the entry's Stamp, a per-call floor,
//     an optional last-modified signal and the configured Mode.
//   - Memo[V]: the cached call. Miss => one call of the wrapped Func and one
//     write; hit => neither.
//   - Scope: binds several Memos of one host to a shared backend and
//     last-modified source.
//
// Keys:
//
//	name(arg0, arg1, ...)   - type-aware repr of each positional argument:
//	                          1, 1.0, int64(1) and "1" are four different keys
//	name(                   - prefix shared by every call, used by InvalidateAll
//
// The read-validate-recompute-write sequence is not atomic. Two callers that
// miss the same key both call the wrapped function and the last write wins,
// so wrapped functions must be deterministic and free of side effects.
package callcache
