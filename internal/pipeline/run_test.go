package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/jonathan/strongpass/internal/policy"
	"github.com/jonathan/strongpass/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func intPtr(n int) *int { return &n }

func TestEvaluate(t *testing.T) {
	p := policy.Default()

	got := Evaluate(3, "aaa111", p, true)
	want := types.Report{
		Index:     3,
		Input:     "aaa111",
		Compliant: false,
		Violations: []types.Violation{
			{
				Type:     types.ViolationRepeatedRun,
				Severity: types.SeverityError,
				Offset:   intPtr(0),
				Length:   intPtr(3),
			},
			{
				Type:     types.ViolationRepeatedRun,
				Severity: types.SeverityError,
				Offset:   intPtr(3),
				Length:   intPtr(3),
			},
			{
				Type:     types.ViolationMissingClass,
				Severity: types.SeverityError,
				Class:    "uppercase",
			},
		},
		Steps:        2,
		Minimum:      2,
		Repaired:     "aaZ11Z",
		EditDistance: 2,
	}

	ignore := cmp.Options{
		cmpopts.IgnoreFields(types.Violation{}, "Details"),
		cmpopts.IgnoreFields(types.Report{}, "Edits"),
	}
	if diff := cmp.Diff(want, got, ignore); diff != "" {
		t.Errorf("Evaluate mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, got.Edits, 2)
}

func TestEvaluate_WithoutEdits(t *testing.T) {
	p := policy.Default()

	for _, input := range []string{"a", "aaa111", strings.Repeat("a", 27), "1337C0d3"} {
		withEdits := Evaluate(0, input, p, true)
		got := Evaluate(0, input, p, false)

		assert.Nil(t, got.Edits, input)
		withEdits.Edits = nil
		assert.Equal(t, withEdits, got, input)
	}
}

func TestEvaluate_Compliant(t *testing.T) {
	got := Evaluate(0, "1337C0d3", policy.Default(), true)

	assert.True(t, got.Compliant)
	assert.Empty(t, got.Violations)
	assert.NotNil(t, got.Violations)
	assert.Zero(t, got.Steps)
	assert.Zero(t, got.Minimum)
	assert.Zero(t, got.EditDistance)
	assert.Equal(t, "1337C0d3", got.Repaired)
}

func TestRunBatch(t *testing.T) {
	inputs := []string{"a", strings.Repeat("a", 27), "aaa111", "1337C0d3", "", "abcdefghijklmnopqrsA1"}

	report, err := RunBatch(context.Background(), inputs, Options{Policy: policy.Default(), Workers: 3})
	require.NoError(t, err)

	_, err = uuid.Parse(report.RunID)
	assert.NoError(t, err, "run id should be a UUID")
	assert.Equal(t, types.PolicySnapshot{MinLength: 6, MaxLength: 20, MaxRepeat: 2}, report.Policy)

	require.Len(t, report.Results, len(inputs))
	steps := make([]int, len(inputs))
	for i, r := range report.Results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, inputs[i], r.Input)
		assert.Nil(t, r.Edits, "edits are dropped unless requested")
		steps[i] = r.Steps
	}
	assert.Equal(t, []int{5, 13, 2, 0, 6, 1}, steps)

	want := types.BatchSummary{Total: 6, Compliant: 1, TotalSteps: 27, TotalMinimum: 27}
	if diff := cmp.Diff(want, report.Summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestRunBatch_MatchesSequentialEvaluation(t *testing.T) {
	p := policy.Policy{MinLength: 4, MaxLength: 10, MaxRepeat: 3}
	inputs := []string{"aaaaaaaaaaaaaa", "Ab1", "zzzz", "ABCDEFGHIJKL", "a1A", "....", "xXx9xXx9"}

	report, err := RunBatch(context.Background(), inputs, Options{Policy: p, Workers: 8, IncludeEdits: true})
	require.NoError(t, err)

	for i, input := range inputs {
		want := Evaluate(i, input, p, true)
		if diff := cmp.Diff(want, report.Results[i]); diff != "" {
			t.Errorf("result %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestRunBatch_Empty(t *testing.T) {
	report, err := RunBatch(context.Background(), nil, Options{Policy: policy.Default()})
	require.NoError(t, err)
	assert.Empty(t, report.Results)
	assert.NotNil(t, report.Results)
	assert.Equal(t, types.BatchSummary{}, report.Summary)
}

func TestRunBatch_InvalidPolicy(t *testing.T) {
	_, err := RunBatch(context.Background(), []string{"a"}, Options{Policy: policy.Policy{MinLength: 2, MaxLength: 1, MaxRepeat: 0}})
	require.Error(t, err)

	var pipelineErr *Error
	require.True(t, errors.As(err, &pipelineErr))
	assert.Equal(t, "invalid policy", pipelineErr.Message)

	var policyErr *policy.Error
	assert.True(t, errors.As(err, &policyErr))
}

func TestRunBatch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := RunBatch(ctx, []string{"a", "b"}, Options{Policy: policy.Default()})
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunBatch_CancelMidRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var evaluated atomic.Int32
	opts := Options{
		Policy:  policy.Default(),
		Workers: 1,
		OnProgress: func(ProgressEvent) {
			evaluated.Add(1)
			cancel()
		},
	}

	_, err := RunBatch(ctx, []string{"a", "b", "c", "d"}, opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, int32(1), evaluated.Load())
}

func TestRunBatch_Progress(t *testing.T) {
	var mu sync.Mutex
	var events []ProgressEvent

	report, err := RunBatch(context.Background(), []string{"a", "aA1", "aaa"}, Options{
		Policy:  policy.Default(),
		Workers: 2,
		OnProgress: func(e ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, e)
		},
	})
	require.NoError(t, err)
	require.Len(t, events, 3)

	steps := map[string]any{}
	for _, e := range events {
		assert.Equal(t, CategoryEvaluated, e.Category)
		assert.Equal(t, report.RunID, e.RunID)
		assert.Contains(t, e.Message, "/3")
		steps[e.Step] = e.Content
	}
	assert.Equal(t, map[string]any{"password_0": 5, "password_1": 3, "password_2": 3}, steps)
}

func TestRunBatch_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	report, err := RunBatch(context.Background(), []string{"a", "1337C0d3"}, Options{
		Policy: policy.Default(),
		Logger: zap.New(core),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("batch started").Len())
	assert.Equal(t, 2, logs.FilterMessage("password evaluated").Len())

	finished := logs.FilterMessage("batch finished").All()
	require.Len(t, finished, 1)
	fields := finished[0].ContextMap()
	assert.Equal(t, report.RunID, fields["run_id"])
	assert.EqualValues(t, 2, fields["total"])
	assert.EqualValues(t, 1, fields["compliant"])
}

func TestSummarize(t *testing.T) {
	got := Summarize([]types.Report{
		{Compliant: true},
		{Steps: 4, Minimum: 3},
		{Steps: 2, Minimum: 2},
	})
	assert.Equal(t, types.BatchSummary{Total: 3, Compliant: 1, TotalSteps: 6, TotalMinimum: 5}, got)
}

func TestError(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{Message: "batch cancelled", Cause: cause}
	assert.Equal(t, "pipeline error: batch cancelled: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "pipeline error: x", (&Error{Message: "x"}).Error())
}
