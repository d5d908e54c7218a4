package port

import "context"

// Feedback receives fire-and-forget user feedback cues (haptics on the
// device). Implementations must not block and never report failure.
type Feedback interface {
	Success(ctx context.Context)
	Warning(ctx context.Context)
	Error(ctx context.Context)
	Light(ctx context.Context)
}
