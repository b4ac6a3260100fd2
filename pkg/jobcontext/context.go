package jobcontext

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type KeyContext string

var (
	keyJobID        KeyContext = "job_id"
	keyJobType      KeyContext = "job_type"
	keyJobStartTime KeyContext = "job_start_time"
)

// JobMetadata describes the analysis request a context belongs to
type JobMetadata struct {
	JobID     string
	JobType   string
	StartTime time.Time
}

// JobBegin derives a context carrying the job metadata. A positive timeout
// bounds the whole job; zero leaves the parent deadline in place.
func JobBegin(parentCtx context.Context, jobID, jobType string, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := parentCtx, context.CancelFunc(func() {})
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(parentCtx, timeout)
	}

	ctx = context.WithValue(ctx, keyJobID, jobID)
	ctx = context.WithValue(ctx, keyJobType, jobType)
	ctx = context.WithValue(ctx, keyJobStartTime, time.Now())

	return ctx, cancel
}

// GetJobID extracts job ID from context
func GetJobID(ctx context.Context) (string, bool) {
	jobID, ok := ctx.Value(keyJobID).(string)
	return jobID, ok && jobID != ""
}

// GetJobType extracts job type from context
func GetJobType(ctx context.Context) (string, bool) {
	jobType, ok := ctx.Value(keyJobType).(string)
	return jobType, ok && jobType != ""
}

// GetJobStartTime extracts job start time from context
func GetJobStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(keyJobStartTime).(time.Time)
	return startTime, ok
}

// GetJobMetadata extracts all job metadata from context
func GetJobMetadata(ctx context.Context) *JobMetadata {
	jobID, _ := GetJobID(ctx)
	jobType, _ := GetJobType(ctx)
	startTime, _ := GetJobStartTime(ctx)

	return &JobMetadata{
		JobID:     jobID,
		JobType:   jobType,
		StartTime: startTime,
	}
}

// Fields returns the zap fields for whatever metadata ctx carries
func Fields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if id, ok := GetJobID(ctx); ok {
		fields = append(fields, zap.String("request_id", id))
	}
	if typ, ok := GetJobType(ctx); ok {
		fields = append(fields, zap.String("job_type", typ))
	}
	if start, ok := GetJobStartTime(ctx); ok {
		fields = append(fields, zap.Duration("elapsed", time.Since(start)))
	}
	return fields
}
