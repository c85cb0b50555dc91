// Package lock keeps scheduled sync runs from overlapping.
//
// RedisLocker takes a SET NX key with a TTL and releases it with a
// compare-and-delete script. Without a Redis URL, New returns a NopLocker and
// concurrent runs are not prevented.
package lock
