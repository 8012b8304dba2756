// Package storage provides the durable string-keyed, string-valued store
// used by the session layer to mirror session lists across restarts.
// The backend may be absent entirely; callers must tolerate a nil store.
package storage
