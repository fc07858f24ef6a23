package audit

import "time"

// TopicLifecycle is the stream carrying LifecycleEvent messages.
const TopicLifecycle = "url.lifecycle"

// Transition names a state change of a shortened URL.
type Transition string

const (
	TransitionCreated   Transition = "created"
	TransitionReenabled Transition = "reenabled"
	TransitionDisabled  Transition = "disabled"
)

// LifecycleEvent is emitted after a successful state transition.
type LifecycleEvent struct {
	Hash       string     `json:"hash"`
	URL        string     `json:"url"`
	Transition Transition `json:"transition"`
	OccurredAt time.Time  `json:"occurredAt"`
	RequestID  string     `json:"requestId,omitempty"`
	ClientIP   string     `json:"clientIp,omitempty"`
	UserAgent  string     `json:"userAgent,omitempty"`
	Referrer   string     `json:"referrer,omitempty"`
}
