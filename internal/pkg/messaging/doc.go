// Package messaging is a broker-agnostic publish/consume client.
//
// Drivers: NATS, NSQ, Kafka, Google Pub/Sub, and an in-process memory broker
// for local runs and tests. Consume blocks until ctx is done and then drains
// in-flight handlers.
package messaging
