package cardgen

import "context"

type contextKey string

const lectureKey contextKey = "cardgen_lecture"

// WithLecture tags the context with the lecture a generation is for, so the
// logging decorator can attribute the event.
func WithLecture(ctx context.Context, lectureID string) context.Context {
	return context.WithValue(ctx, lectureKey, lectureID)
}

// LectureFrom returns the lecture tag, or "" when absent.
func LectureFrom(ctx context.Context) string {
	if v, ok := ctx.Value(lectureKey).(string); ok {
		return v
	}
	return ""
}
