// Package pipeline evaluates batches of passwords concurrently.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/strongpass/internal/optimal"
	"github.com/jonathan/strongpass/internal/policy"
	"github.com/jonathan/strongpass/internal/repair"
	"github.com/jonathan/strongpass/internal/types"
	"github.com/jonathan/strongpass/internal/util"
	"github.com/jonathan/strongpass/internal/validation"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is used when Options.Workers is not positive.
const DefaultWorkers = 4

// Progress categories
const (
	CategoryEvaluated = "evaluated"
)

// ProgressEvent represents a progress update during a batch run
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when batch progress occurs. It is invoked from
// worker goroutines and must be safe for concurrent use.
type ProgressCallback func(event ProgressEvent)

// Options holds configuration for a batch run
type Options struct {
	Policy       policy.Policy
	Workers      int
	IncludeEdits bool        // Keep the per-password edit log in the report
	Logger       *zap.Logger // Nil disables logging
	OnProgress   ProgressCallback
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *Options, runID, step, category, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:     step,
			Category: category,
			Message:  message,
			RunID:    runID,
			Content:  content,
		})
	}
}

// Evaluate checks, repairs and scores a single password. The edit log is
// recorded only when withEdits is set.
func Evaluate(index int, input string, p policy.Policy, withEdits bool) types.Report {
	violations := validation.Check(input, p)

	var result repair.Result
	if withEdits {
		result = *repair.Run(input, p)
	} else {
		result.Steps, result.Password = repair.Repair(input, p)
	}

	return types.Report{
		Index:        index,
		Input:        input,
		Compliant:    violations.Empty(),
		Violations:   violations.Violations,
		Steps:        result.Steps,
		Minimum:      optimal.MinimumEdits(input, p),
		Repaired:     result.Password,
		EditDistance: util.Levenshtein(input, result.Password),
		Edits:        result.Edits,
	}
}

// RunBatch evaluates every input with a bounded pool of workers. Results keep
// the order of inputs. Cancelling ctx stops scheduling new work and returns
// the context error.
func RunBatch(ctx context.Context, inputs []string, opts Options) (*types.BatchReport, error) {
	if err := opts.Policy.Validate(); err != nil {
		return nil, &Error{Message: "invalid policy", Cause: err}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	runID := uuid.New().String()
	logger = logger.With(zap.String("run_id", runID))
	logger.Info("batch started",
		zap.Int("inputs", len(inputs)),
		zap.Int("workers", workers),
		zap.Stringer("policy", opts.Policy))

	results := make([]types.Report, len(inputs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, input := range inputs {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			report := Evaluate(i, input, opts.Policy, opts.IncludeEdits)
			results[i] = report

			logger.Debug("password evaluated",
				zap.Int("index", i),
				zap.Bool("compliant", report.Compliant),
				zap.Int("steps", report.Steps),
				zap.Int("minimum", report.Minimum))
			emitProgress(&opts, runID, fmt.Sprintf("password_%d", i), CategoryEvaluated,
				fmt.Sprintf("Evaluated password %d/%d", i+1, len(inputs)), report.Steps)
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		logger.Warn("batch cancelled", zap.Error(err))
		return nil, &Error{Message: "batch cancelled", Cause: err}
	}

	report := &types.BatchReport{
		RunID: runID,
		Policy: types.PolicySnapshot{
			MinLength: opts.Policy.MinLength,
			MaxLength: opts.Policy.MaxLength,
			MaxRepeat: opts.Policy.MaxRepeat,
		},
		Results: results,
		Summary: Summarize(results),
	}

	logger.Info("batch finished",
		zap.Int("total", report.Summary.Total),
		zap.Int("compliant", report.Summary.Compliant),
		zap.Int("total_steps", report.Summary.TotalSteps))

	return report, nil
}

// Summarize aggregates per-password reports.
func Summarize(results []types.Report) types.BatchSummary {
	summary := types.BatchSummary{Total: len(results)}
	for _, r := range results {
		if r.Compliant {
			summary.Compliant++
		}
		summary.TotalSteps += r.Steps
		summary.TotalMinimum += r.Minimum
	}
	return summary
}
