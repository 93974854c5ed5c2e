// Package manuscript assembles and stores compiled drafts: the flat documents
// produced by joining a shard's scene entries in recency order.
//
// Memory entries are the working material; a Draft is the deliverable built
// from them. The Store interface keeps drafts swappable (in-memory for tests
// and prototypes, durable backends for production) without touching the
// compile path. Callers should depend on the Store interface rather than
// concrete types.
package manuscript
