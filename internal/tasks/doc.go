// Package tasks runs long collection operations with real-time progress reporting.
//
// # Export
//
// [Engine.ExportCollections] drains whole collections from a [Source]:
//   - one worker per collection job, up to [ExportOpts.NumWorkers]
//   - every page fetch waits on a shared rate limiter
//   - each collection stops when the cursor runs out or after [ExportOpts.MaxPages]
//   - items are written through the formatter package, one file per collection
//   - an export_manifest.json summarizes successes and failures
//
// A failed collection does not stop the others; its error lands in the manifest.
//
// # Progress Reporting
//
// Updates are sent on an optional channel with select/default, so a slow or
// absent reader never blocks an export. [ProgressUpdate] carries the phase,
// step counters, a message and optional data for richer UIs.
package tasks
