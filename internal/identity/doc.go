// Package identity supplies the opaque user identifier the session layer
// partitions by. The id is treated as a string and never validated or
// refreshed here.
package identity
