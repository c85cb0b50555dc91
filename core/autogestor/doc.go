// Package autogestor is the read-only client for the AutoGestor inventory feed.
//
// The feed is a single GET endpoint returning {"veiculos": [...]}. Field values
// are loosely typed (codes and years arrive as numbers or strings), so Vehicle
// uses Flexible/FlexibleInt to normalize them while decoding.
package autogestor
