// Package utils provides small helpers shared across autosync packages,
// mostly coercion of loosely typed JSON values coming from the source feed.
package utils
