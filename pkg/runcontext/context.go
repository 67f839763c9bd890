package runcontext

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/followupsync/pkg/temporal"
)

type KeyContext string

var (
	keyRunID         KeyContext = "run_id"
	keyReferenceDate KeyContext = "reference_date"
	keyRunStartTime  KeyContext = "run_start_time"
)

// RunMetadata holds metadata for one extraction run
type RunMetadata struct {
	RunID         string
	ReferenceDate temporal.Date
	StartTime     time.Time
}

// RunBegin attaches run metadata to ctx
func RunBegin(parentCtx context.Context, runID string, ref temporal.Date) context.Context {
	ctx := context.WithValue(parentCtx, keyRunID, runID)
	ctx = context.WithValue(ctx, keyReferenceDate, ref)
	ctx = context.WithValue(ctx, keyRunStartTime, time.Now())
	return ctx
}

// GetRunID extracts run ID from context
func GetRunID(ctx context.Context) (string, bool) {
	runID, ok := ctx.Value(keyRunID).(string)
	return runID, ok
}

// GetReferenceDate extracts the reference date from context
func GetReferenceDate(ctx context.Context) (temporal.Date, bool) {
	ref, ok := ctx.Value(keyReferenceDate).(temporal.Date)
	return ref, ok
}

// GetRunStartTime extracts run start time from context
func GetRunStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(keyRunStartTime).(time.Time)
	return startTime, ok
}

// GetRunMetadata extracts all run metadata from context
func GetRunMetadata(ctx context.Context) *RunMetadata {
	runID, _ := GetRunID(ctx)
	ref, _ := GetReferenceDate(ctx)
	startTime, _ := GetRunStartTime(ctx)

	return &RunMetadata{
		RunID:         runID,
		ReferenceDate: ref,
		StartTime:     startTime,
	}
}

// LogFields returns zap fields describing the run in ctx, or nil outside a run
func LogFields(ctx context.Context) []zap.Field {
	runID, ok := GetRunID(ctx)
	if !ok {
		return nil
	}
	fields := []zap.Field{zap.String("run_id", runID)}
	if ref, ok := GetReferenceDate(ctx); ok {
		fields = append(fields, zap.String("reference_date", ref.String()))
	}
	if start, ok := GetRunStartTime(ctx); ok {
		fields = append(fields, zap.Duration("elapsed", time.Since(start)))
	}
	return fields
}
