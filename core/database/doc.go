// Package database manages the optional run journal.
//
// Connect opens MySQL or SQLite through GORM. The Journal persists one
// RunRecord per sync run in the sync_runs table and lists recent runs for the
// HTTP control surface. GetTableColumns inspects a table's schema for either
// dialect; Journal.MissingColumns uses it to report a drifted journal table.
package database
