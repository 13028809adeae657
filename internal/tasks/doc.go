// Package tasks runs long favorites operations with progress reporting.
//
// [BulkExport] writes the favorites of many users in parallel: a fixed pool of workers
// renders one file per user through the formatter package, and a manifest summarizing
// successes and failures is written next to the files.
//
// Progress is reported on an optional [ProgressUpdate] channel. Sends never block;
// updates are dropped when the receiver falls behind.
package tasks
