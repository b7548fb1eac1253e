// Package repositories implements persistence behind a small key-value port.
//
// Every collection is stored as one JSON document under a fixed key, so any [Store] that can get and set
// bytes by key is enough to back the application. [SQLiteStore] keeps documents in the kv_store table created
// by the embedded migrations; [MemoryStore] keeps them in a map for tests and throwaway sessions.
//
// Key Implementations:
//   - [BookRepository] : the book shelf, implementing models.Repository for books
//   - [SessionRepository] : the append-only reading log; updates and deletes return shared.ErrImmutable
//   - [UserRepository] : the single local profile
//
// A missing key reads as an empty collection. A document that fails to decode is reported with an error
// wrapping shared.ErrMalformedData so callers can choose to fall back to empty data.
package repositories
