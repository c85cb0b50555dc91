// Package events publishes sync run markers and applied actions to Kafka.
//
// Consumers (search indexers, dashboards) can follow catalog changes without
// polling the storefront. Publishing is best effort: the orchestrator logs
// failures and carries on.
package events
