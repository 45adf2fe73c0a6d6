// Package jobs runs ingestion work asynchronously: single-document jobs with
// retry and linear backoff, batch fan-out with per-document error
// aggregation, and full-corpus re-embedding behind a corpus-level lock.
//
// Upload and search stay decoupled: a submitted job returns immediately with
// an ID, and its state can be polled while searches keep running against the
// existing points.
package jobs
