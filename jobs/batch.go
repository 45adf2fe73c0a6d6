package jobs

import (
	"context"

	"github.com/poiesic/profilematch/core"
	"github.com/poiesic/profilematch/ingestion"
)

// BatchResult aggregates the outcome of a batch ingestion.
// One bad document never aborts the batch; its error is recorded per
// document and the rest proceed.
type BatchResult struct {
	Total     int
	Succeeded int
	Failed    int

	// Errors maps document ID to the final error of its job.
	Errors map[string]string
}

// IngestBatch fans a set of parsed documents out over the worker pool and
// waits for this batch's jobs to reach a terminal state. Work submitted
// outside the batch never extends the wait. Jobs are keyed by reconciliation
// key, so duplicate uploads of the same candidate within a batch are
// serialized rather than racing.
func (o *Orchestrator) IngestBatch(ctx context.Context, pipeline *ingestion.Pipeline, docs []*core.ParsedDocument) (*BatchResult, error) {
	result := &BatchResult{
		Total:  len(docs),
		Errors: make(map[string]string),
	}

	jobIDs := make([]string, 0, len(docs))
	jobDocs := make(map[string]string, len(docs))
	for _, doc := range docs {
		doc := doc
		jobID, err := o.Submit(ctx, "ingest", doc.Key, func(ctx context.Context) error {
			_, err := pipeline.IngestDocument(ctx, doc)
			return err
		})
		if err != nil {
			result.Failed++
			result.Errors[doc.DocumentID] = err.Error()
			continue
		}
		jobIDs = append(jobIDs, jobID)
		jobDocs[jobID] = doc.DocumentID
	}

	if err := o.WaitFor(jobIDs...); err != nil {
		return nil, err
	}

	for jobID, documentID := range jobDocs {
		job, err := o.GetJob(jobID)
		if err != nil {
			result.Failed++
			result.Errors[documentID] = err.Error()
			continue
		}
		if job.State == StateSucceeded {
			result.Succeeded++
		} else {
			result.Failed++
			result.Errors[documentID] = job.LastError
		}
	}

	o.logger.Info("batch ingested",
		"total", result.Total,
		"succeeded", result.Succeeded,
		"failed", result.Failed)

	return result, nil
}
