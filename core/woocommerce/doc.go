// Package woocommerce is the client for the storefront products resource.
//
// It covers what the sync needs: paginated listing (ListAll), lookup by SKU,
// batch create/update through /products/batch and forced single deletes.
// Batch calls report per-item failures in BatchResult.Failed instead of failing
// the whole call.
package woocommerce
