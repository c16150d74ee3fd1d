// Package messaging publishes and consumes events through a broker chosen
// by configuration (NATS, NSQ, Kafka, or an in-process broker), so use-case
// code depends only on the Publisher and Consumer interfaces.
//
// Delivery is at-least-once where the broker supports it: a handler that
// returns nil acknowledges the message, an error leaves it for redelivery.
// Consumers must therefore be idempotent. Core NATS is the exception: it
// cannot redeliver, so a failing message is retried in process a few times
// and then dropped.
package messaging
