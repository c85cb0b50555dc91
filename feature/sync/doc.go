// Package sync orchestrates vehicle catalog synchronization runs.
//
// Service.Run brackets each run with start and finish markers tagged with a
// run id, takes the optional run lock, plans against a full listing, applies
// creates (sequential) and updates (concurrent), then sweeps duplicates and
// orphans from a fresh listing. Journal, archive, events and metrics are
// optional sinks whose failures are logged and never fail the run.
//
// The Handler exposes runs over HTTP:
//
//	GET  /health
//	GET  /metrics
//	POST /sync/run[?wait=true]
//	GET  /sync/plan
//	GET  /sync/runs[?limit=n]
//	GET  /sync/reports
//	GET  /sync/reports/:run_id
//	GET  /sync/vehicles/:sku
package sync
