// Package events delivers named events to live client sessions. Sessions
// are append-only sinks addressed by an opaque id; pipelines publish into
// them and never see the transport behind them.
package events

import "time"

type Name string

const (
	NameConnectionResponse Name = "connection_response"
	NameCaption            Name = "caption"
	NameDone               Name = "done"
	NameError              Name = "error"
)

// Event is one named payload bound for a single session.
type Event struct {
	Name      Name      `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// ConnectionPayload is sent once when a session attaches.
type ConnectionPayload struct {
	Data string `json:"data"`
}

// CaptionPayload carries one simplified (and possibly translated) caption.
// Original is the raw transcript the caption was derived from.
type CaptionPayload struct {
	Text       string  `json:"text"`
	Original   string  `json:"original"`
	Confidence float64 `json:"confidence"`
}

// DonePayload terminates a successful job. Transcript may be empty.
type DonePayload struct {
	Transcript string `json:"transcript"`
}

// ErrorPayload terminates a failed job with a short, user-facing message.
type ErrorPayload struct {
	Message string `json:"message"`
}

func Caption(text, original string, confidence float64) Event {
	return Event{
		Name:      NameCaption,
		Timestamp: time.Now().UTC(),
		Payload:   CaptionPayload{Text: text, Original: original, Confidence: confidence},
	}
}

func Done(transcript string) Event {
	return Event{
		Name:      NameDone,
		Timestamp: time.Now().UTC(),
		Payload:   DonePayload{Transcript: transcript},
	}
}

func Failure(message string) Event {
	return Event{
		Name:      NameError,
		Timestamp: time.Now().UTC(),
		Payload:   ErrorPayload{Message: message},
	}
}

func Connected() Event {
	return Event{
		Name:      NameConnectionResponse,
		Timestamp: time.Now().UTC(),
		Payload:   ConnectionPayload{Data: "Connected!"},
	}
}
