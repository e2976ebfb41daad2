// Package queue defines the catalog's event envelope, topics, and payloads.
//
// Overview
//   - Publish/subscribe decouples the catalog core from downstream consumers
//     (indexers, notification bots, audit trails).
//   - Uniform envelope: Message[Payload] = Header + Payload.
//   - Topic constants live in topics.go, payload structs in payloads.go.
//   - JSON encoding via bytedance/sonic, easy to parse from any language.
//
// Envelope JSON structure:
//
//	{
//	  "header": {
//	    "topic": "mv.catalog.ingested",
//	    "trace_id": "optional-trace-id",
//	    "producer": "mediavault",
//	    "occurred_at": "2026-01-02T03:04:05.123456Z",
//	    "version": "v1"
//	  },
//	  "payload": { ... topic dependent ... }
//	}
//
// Publishing:
//
//	payload := queue.IngestedPayload{
//	  Record: queue.RecordRef{Key: key, Partition: "primary", FileName: name},
//	}
//	msg, _ := queue.NewWatermillMessage(queue.TopicCatalogIngested, payload,
//	  queue.WithTraceID("trace-xyz"))
//	_ = client.Publish(ctx, queue.TopicCatalogIngested, msg)
//
// Subscribing:
//
//	ch, _ := client.Subscribe(ctx, queue.TopicCatalogIngested)
//	for m := range ch {
//	    env, _ := queue.ParseWatermillMessage[queue.IngestedPayload](m)
//	    // use env.Header / env.Payload
//	    m.Ack()
//	}
//
// occurred_at is UTC RFC3339. Consumers should ignore unknown fields so the
// payload version can evolve.
package queue

import (
	"time"

	watermill "github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bytedance/sonic"
)

const (
	PayloadVersionV1 string = "v1"
)

// NewEventHeader creates an event header for a topic.
func NewEventHeader(topic string, opts ...func(*EventHeader)) EventHeader {
	hdr := EventHeader{
		Topic:      topic,
		OccurredAt: time.Now().UTC(),
		Version:    PayloadVersionV1,
	}
	for _, opt := range opts {
		opt(&hdr)
	}

	return hdr
}

// WithTraceID sets the trace ID.
func WithTraceID(id string) func(*EventHeader) { return func(h *EventHeader) { h.TraceID = id } }

// WithProducer sets the producer.
func WithProducer(p string) func(*EventHeader) { return func(h *EventHeader) { h.Producer = p } }

// Encode serializes an envelope to JSON bytes.
func Encode[T any](msg Message[T]) ([]byte, error) { return sonic.Marshal(msg) }

// Decode deserializes an envelope from JSON bytes.
func Decode[T any](b []byte) (Message[T], error) {
	var m Message[T]

	err := sonic.Unmarshal(b, &m)

	return m, err
}

// NewWatermillMessage builds a watermill message carrying the envelope, with
// the header mirrored into message metadata.
func NewWatermillMessage[T any](topic string, payload T, opts ...func(*EventHeader)) (*message.Message, error) {
	header := NewEventHeader(topic, opts...)
	env := Message[T]{Header: header, Payload: payload}

	data, err := Encode(env)
	if err != nil {
		return nil, err
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("topic", topic)

	if header.TraceID != "" {
		msg.Metadata.Set("trace_id", header.TraceID)
	}

	if header.Producer != "" {
		msg.Metadata.Set("producer", header.Producer)
	}

	msg.Metadata.Set("occurred_at", header.OccurredAt.Format(time.RFC3339Nano))

	if header.Version != "" {
		msg.Metadata.Set("version", header.Version)
	}

	return msg, nil
}

// ParseWatermillMessage extracts the typed envelope from a watermill message.
func ParseWatermillMessage[T any](msg *message.Message) (Message[T], error) {
	return Decode[T](msg.Payload)
}
