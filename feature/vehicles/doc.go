// Package vehicles maps AutoGestor feed vehicles onto WooCommerce products.
//
// It owns the taxonomy lookup tables, price parsing, display-name profiles,
// the equivalence check that decides whether a product needs rewriting, and
// the reconcile adapter that plugs the feed and catalog clients into the
// generic engine in core/reconcile.
package vehicles
