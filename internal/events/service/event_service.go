/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/aarogyaai/consent-service/internal/events/model"
	"github.com/aarogyaai/consent-service/internal/system/config"
	"github.com/aarogyaai/consent-service/internal/system/log"
)

// EventPublisherInterface publishes consent lifecycle events.
type EventPublisherInterface interface {
	Publish(ctx context.Context, event model.Event) error
	Close() error
}

// MessageWriter is the subset of kafka.Writer used by the publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaEventPublisher writes events to a Kafka topic keyed by consent id.
type KafkaEventPublisher struct {
	writer  MessageWriter
	timeout time.Duration
}

// NewKafkaEventPublisher creates a publisher from the events configuration.
func NewKafkaEventPublisher(cfg config.EventsConfig) *KafkaEventPublisher {
	return NewKafkaEventPublisherWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}, cfg.PublishTimeout)
}

// NewKafkaEventPublisherWithWriter creates a publisher over an existing writer. Each publish is
// given timeout; zero leaves the caller's deadline in place.
func NewKafkaEventPublisherWithWriter(writer MessageWriter, timeout time.Duration) *KafkaEventPublisher {
	return &KafkaEventPublisher{writer: writer, timeout: timeout}
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, event model.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.EventId, err)
	}
	msg := kafka.Message{
		Key:   []byte(event.ConsentId),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaEventPublisher) Close() error {
	return p.writer.Close()
}

// NoopEventPublisher discards events. Used when the event stream is disabled.
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(context.Context, model.Event) error { return nil }

func (NoopEventPublisher) Close() error { return nil }

// NewEventPublisher returns a Kafka publisher when events are enabled.
func NewEventPublisher(cfg config.EventsConfig) EventPublisherInterface {
	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.GetLogger().Info("Consent event stream is disabled")
		return NoopEventPublisher{}
	}
	log.GetLogger().Info(fmt.Sprintf("Publishing consent events to topic %s", cfg.Topic))
	return NewKafkaEventPublisher(cfg)
}
