// Package notify triggers notification workflows on the external provider.
// Delivery is best-effort from this service's perspective: callers log
// failures and move on, they never roll back state over a lost notification.
package notify

import "context"

// Workflow keys.
const (
	WorkflowLaunchpadTrade      = "launchpad-trade"
	WorkflowLaunchpadCapReached = "launchpad-cap-reached"
)

// Workflow is one notification trigger: a workflow key, the recipient user
// ids, and the payload rendered into the notification.
type Workflow struct {
	Key     string         `json:"key"`
	UserIDs []int64        `json:"users"`
	Data    map[string]any `json:"data"`
}

// Notifier triggers notification workflows.
type Notifier interface {
	TriggerWorkflow(ctx context.Context, wf *Workflow) error
}

// Noop is a Notifier that discards workflows.
type Noop struct{}

// TriggerWorkflow discards the workflow.
func (Noop) TriggerWorkflow(context.Context, *Workflow) error { return nil }
