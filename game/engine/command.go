package engine

// Task identifies the operation a command asks the engine to perform
type Task string

const (
	TaskStart Task = "start"
	TaskMove  Task = "move"
)

// Command is a message sent to the engine through its inbox channel.
// DelayMs only applies to TaskStart and configures the demo progress task.
type Command struct {
	Task      Task      `json:"task"`
	Direction Direction `json:"direction,omitempty"`
	DelayMs   int       `json:"delay_ms,omitempty"`
}

// Status classifies events emitted by the engine
type Status string

const (
	StatusIdle       Status = "idle"
	StatusProcessing Status = "processing"
	StatusFinished   Status = "finished"
	StatusError      Status = "error"
)

// Event is a notification emitted by the engine. The channel carries no
// request/response correlation: the engine emits unsolicited events
// (idle-decay transitions, progress ticks) interleaved with command
// results, so consumers must correlate by content.
type Event struct {
	Status         Status       `json:"status"`
	Message        string       `json:"message,omitempty"`
	State          *PlayerState `json:"state,omitempty"`
	World          *WorldMap    `json:"world,omitempty"`
	ProgressStep   int          `json:"progress_step,omitempty"`
	ProgressTotal  int          `json:"progress_total,omitempty"`
	ProgressResult int          `json:"progress_result,omitempty"`
}
