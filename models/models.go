package models

import "time"

// Speaker roles for the generated dialogue. Every script line carries
// exactly one of these two.
const (
	SpeakerHost  = "Host"
	SpeakerGuest = "Guest"
)

// Segment is one dialogue line: who speaks and what they say.
type Segment struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// Podcast wraps the structured script the model returns.
type Podcast struct {
	Podcast []Segment `json:"podcast"`
}

// SearchResult is one crawled page. Results only live for the duration of
// a single pipeline run.
type SearchResult struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// PodcastOutput is the final artifact of a run: the stitched MP3 on disk.
// Duration is estimated from the encoded size, see producer.
type PodcastOutput struct {
	Path     string        `json:"path"`
	Duration time.Duration `json:"duration"`
	Lines    int           `json:"lines"`
}

// Progress event statuses.
const (
	StatusStarted   = "started"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ProgressEvent is emitted by the pipeline at the start and end of every
// stage, in execution order.
type ProgressEvent struct {
	Stage   string `json:"stage"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Job statuses used by the HTTP API.
const (
	JobRunning = "running"
	JobDone    = "done"
	JobError   = "error"
)

// Job tracks one pipeline run started through the HTTP API.
type Job struct {
	ID     string `json:"job_id"`
	Status string `json:"status"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}
