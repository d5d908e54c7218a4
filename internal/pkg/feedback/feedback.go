// internal/pkg/feedback/feedback.go
package feedback

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Cue is a kind of user feedback
type Cue string

const (
	CueSuccess Cue = "success"
	CueWarning Cue = "warning"
	CueError   Cue = "error"
	CueLight   Cue = "light"
)

// Logger emits feedback cues as debug log entries. Clients read the cue
// from the response; the server only keeps a trace of it.
type Logger struct {
	log logrus.FieldLogger
}

// NewLogger creates a logging feedback notifier
func NewLogger(log logrus.FieldLogger) *Logger {
	return &Logger{log: log}
}

func (l *Logger) Success(ctx context.Context) { l.emit(ctx, CueSuccess) }
func (l *Logger) Warning(ctx context.Context) { l.emit(ctx, CueWarning) }
func (l *Logger) Error(ctx context.Context)   { l.emit(ctx, CueError) }
func (l *Logger) Light(ctx context.Context)   { l.emit(ctx, CueLight) }

func (l *Logger) emit(ctx context.Context, cue Cue) {
	entry := l.log.WithField("cue", cue)
	if sink := sinkFrom(ctx); sink != nil {
		sink.add(cue)
	}
	entry.Debug("Feedback cue")
}

// Recorder keeps every cue it receives, in order
type Recorder struct {
	mu   sync.Mutex
	cues []Cue
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Success(context.Context) { r.add(CueSuccess) }
func (r *Recorder) Warning(context.Context) { r.add(CueWarning) }
func (r *Recorder) Error(context.Context)   { r.add(CueError) }
func (r *Recorder) Light(context.Context)   { r.add(CueLight) }

// Cues returns the recorded cues
func (r *Recorder) Cues() []Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Cue, len(r.cues))
	copy(out, r.cues)
	return out
}

// Last returns the most recent cue or an empty string
func (r *Recorder) Last() Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.cues) == 0 {
		return ""
	}
	return r.cues[len(r.cues)-1]
}

func (r *Recorder) add(cue Cue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cues = append(r.cues, cue)
}

type sinkKey struct{}

// WithSink returns a context whose cues are also collected by the recorder.
// The HTTP layer uses it to echo the cue of a request back to the client.
func WithSink(ctx context.Context, r *Recorder) context.Context {
	return context.WithValue(ctx, sinkKey{}, r)
}

func sinkFrom(ctx context.Context) *Recorder {
	if ctx == nil {
		return nil
	}
	r, _ := ctx.Value(sinkKey{}).(*Recorder)
	return r
}
