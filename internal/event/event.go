// Package event defines the S3-style event record, its name taxonomy,
// and the builder used to construct validated events.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Identity identifies the principal associated with a request.
type Identity struct {
	PrincipalID string `json:"principalId"`
}

// Bucket describes the bucket an event occurred in.
type Bucket struct {
	Name          string   `json:"name"`
	OwnerIdentity Identity `json:"ownerIdentity"`
	ARN           string   `json:"arn"`
}

// Object describes the object an event occurred on.
type Object struct {
	Key          string            `json:"key"`
	Size         *int64            `json:"size,omitempty"`
	ETag         string            `json:"eTag,omitempty"`
	ContentType  string            `json:"contentType,omitempty"`
	UserMetadata map[string]string `json:"userMetadata,omitempty"`
	VersionID    string            `json:"versionId,omitempty"`
	Sequencer    string            `json:"sequencer"`
}

// Metadata is the s3-shaped payload carried by every event.
type Metadata struct {
	SchemaVersion   string `json:"s3SchemaVersion"`
	ConfigurationID string `json:"configurationId"`
	Bucket          Bucket `json:"bucket"`
	Object          Object `json:"object"`
}

// Source describes where the event was generated.
type Source struct {
	Host      string `json:"host"`
	Port      string `json:"port"`
	UserAgent string `json:"userAgent"`
}

// Event is a single object-storage event notification.
type Event struct {
	EventVersion      string            `json:"eventVersion"`
	EventSource       string            `json:"eventSource"`
	AWSRegion         string            `json:"awsRegion"`
	EventTime         string            `json:"eventTime"`
	EventName         Name              `json:"eventName"`
	UserIdentity      Identity          `json:"userIdentity"`
	RequestParameters map[string]string `json:"requestParameters"`
	ResponseElements  map[string]string `json:"responseElements"`
	S3                Metadata          `json:"s3"`
	Source            Source            `json:"source"`
	ID                uuid.UUID         `json:"id"`
	Timestamp         time.Time         `json:"timestamp"`
	Channels          []string          `json:"channels"`
}

// IsType reports whether the event's name falls under eventType, which
// may itself be a leaf or a group name.
func (e *Event) IsType(eventType Name) bool {
	return e.EventName.Mask()&eventType.Mask() != 0
}

// IsForChannel reports whether the event is addressed to the named
// channel (the adapter name registered with the bus).
func (e *Event) IsForChannel(channel string) bool {
	for _, c := range e.Channels {
		if c == channel {
			return true
		}
	}
	return false
}

// Log is a batch of events sharing one configuration/key. The durable
// store in internal/eventlog does not use it: it saves and replays
// plain event slices.
type Log struct {
	EventName Name    `json:"eventName"`
	Key       string  `json:"key"`
	Records   []Event `json:"records"`
}

// MissingFieldError reports a required builder field left unset.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "event: missing required field " + e.Field
}

// Builder constructs a validated Event. NewBuilder fills in the defaults a
// typical S3-style producer would supply (event version, source,
// region, anonymous identity); callers only need to provide the
// event-specific fields before calling Build.
type Builder struct {
	eventVersion      string
	eventSource       string
	awsRegion         string
	eventTime         string
	eventName         *Name
	userIdentity      Identity
	requestParameters map[string]string
	responseElements  map[string]string
	s3                *Metadata
	source            *Source
	channels          []string
}

// NewBuilder returns a Builder pre-filled with common defaults.
func NewBuilder() *Builder {
	return &Builder{
		eventVersion: "2.0",
		eventSource:  "aws:s3",
		awsRegion:    "us-east-1",
		eventTime:    time.Now().UTC().Format(time.RFC3339),
		userIdentity: Identity{PrincipalID: "anonymous"},
	}
}

func (b *Builder) EventVersion(v string) *Builder {
	if v != "" {
		b.eventVersion = v
	}
	return b
}

func (b *Builder) EventSource(v string) *Builder {
	if v != "" {
		b.eventSource = v
	}
	return b
}

func (b *Builder) AWSRegion(v string) *Builder {
	if v != "" {
		b.awsRegion = v
	}
	return b
}

func (b *Builder) EventTime(v string) *Builder {
	if v != "" {
		b.eventTime = v
	}
	return b
}

func (b *Builder) EventName(n Name) *Builder {
	b.eventName = &n
	return b
}

func (b *Builder) UserIdentity(i Identity) *Builder {
	b.userIdentity = i
	return b
}

func (b *Builder) RequestParameters(m map[string]string) *Builder {
	b.requestParameters = m
	return b
}

func (b *Builder) ResponseElements(m map[string]string) *Builder {
	b.responseElements = m
	return b
}

func (b *Builder) S3(m Metadata) *Builder {
	b.s3 = &m
	return b
}

func (b *Builder) Source(s Source) *Builder {
	b.source = &s
	return b
}

func (b *Builder) Channels(ch []string) *Builder {
	b.channels = ch
	return b
}

// ForObjectCreation returns a Builder preconfigured for an
// ObjectCreatedPut event with the given metadata and source.
func ForObjectCreation(s3 Metadata, source Source) *Builder {
	return NewBuilder().EventName(ObjectCreatedPut).S3(s3).Source(source)
}

// ForObjectRemoval returns a Builder preconfigured for an
// ObjectRemovedDelete event with the given metadata and source.
func ForObjectRemoval(s3 Metadata, source Source) *Builder {
	return NewBuilder().EventName(ObjectRemovedDelete).S3(s3).Source(source)
}

// Build validates the builder's state and returns a complete Event,
// stamped with a fresh random ID and the current time. It returns
// *MissingFieldError if a required field was never set. EventVersion,
// EventSource, AWSRegion, and EventTime are never missing: NewBuilder
// seeds them with defaults and their setters ignore an empty value, so
// only the fields with no default — event name, s3 metadata, and
// source — can fail validation.
func (b *Builder) Build() (*Event, error) {
	if b.eventName == nil {
		return nil, &MissingFieldError{Field: "event_name"}
	}
	if b.s3 == nil {
		return nil, &MissingFieldError{Field: "s3"}
	}
	if b.source == nil {
		return nil, &MissingFieldError{Field: "source"}
	}

	requestParameters := b.requestParameters
	if requestParameters == nil {
		requestParameters = map[string]string{}
	}
	responseElements := b.responseElements
	if responseElements == nil {
		responseElements = map[string]string{}
	}
	channels := b.channels
	if channels == nil {
		channels = []string{}
	}

	return &Event{
		EventVersion:      b.eventVersion,
		EventSource:       b.eventSource,
		AWSRegion:         b.awsRegion,
		EventTime:         b.eventTime,
		EventName:         *b.eventName,
		UserIdentity:      b.userIdentity,
		RequestParameters: requestParameters,
		ResponseElements:  responseElements,
		S3:                *b.s3,
		Source:            *b.source,
		ID:                uuid.New(),
		Timestamp:         time.Now().UTC(),
		Channels:          channels,
	}, nil
}
