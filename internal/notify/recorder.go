package notify

import (
	"context"
	"sync"
)

// Recorder is a Notifier that records triggered workflows for tests.
type Recorder struct {
	mu        sync.Mutex
	Workflows []*Workflow
	Err       error // returned by TriggerWorkflow when set
}

// NewRecorder creates a recording notifier.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Compile-time interface check.
var _ Notifier = (*Recorder)(nil)

// TriggerWorkflow records the workflow.
func (r *Recorder) TriggerWorkflow(_ context.Context, wf *Workflow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	cp := *wf
	r.Workflows = append(r.Workflows, &cp)
	return nil
}

// ByKey returns the recorded workflows with the given key.
func (r *Recorder) ByKey(key string) []*Workflow {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Workflow
	for _, wf := range r.Workflows {
		if wf.Key == key {
			out = append(out, wf)
		}
	}
	return out
}
