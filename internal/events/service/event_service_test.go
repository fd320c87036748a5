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
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aarogyaai/consent-service/internal/events/model"
	"github.com/aarogyaai/consent-service/internal/system/config"
	"github.com/aarogyaai/consent-service/internal/system/log"
)

type MockMessageWriter struct {
	mock.Mock
}

func (m *MockMessageWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockMessageWriter) Close() error {
	return m.Called().Error(0)
}

func TestKafkaEventPublisher_Publish(t *testing.T) {
	writer := new(MockMessageWriter)
	var written []kafka.Message
	writer.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { written = args.Get(1).([]kafka.Message) }).
		Return(nil)

	publisher := NewKafkaEventPublisherWithWriter(writer, 0)
	err := publisher.Publish(context.Background(), model.Event{
		EventId:   "e-1",
		EventType: model.EventTypeConsentApproved,
		ConsentId: "c-1",
		Status:    "approved",
	})

	require.NoError(t, err)
	require.Len(t, written, 1)
	assert.Equal(t, []byte("c-1"), written[0].Key)

	var decoded model.Event
	require.NoError(t, json.Unmarshal(written[0].Value, &decoded))
	assert.Equal(t, model.EventTypeConsentApproved, decoded.EventType)
	assert.Equal(t, "event_type", written[0].Headers[0].Key)
}

func TestKafkaEventPublisher_PublishGivesUpOnStalledBroker(t *testing.T) {
	writer := new(MockMessageWriter)
	writer.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { <-args.Get(0).(context.Context).Done() }).
		Return(context.DeadlineExceeded)

	publisher := NewKafkaEventPublisherWithWriter(writer, 50*time.Millisecond)
	start := time.Now()
	err := publisher.Publish(context.Background(), model.Event{EventId: "e-1", ConsentId: "c-1"})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestNewEventPublisher_DisabledIsNoop(t *testing.T) {
	log.Init("DEBUG")

	publisher := NewEventPublisher(config.EventsConfig{Enabled: false})
	_, ok := publisher.(NoopEventPublisher)
	assert.True(t, ok)
	assert.NoError(t, publisher.Publish(context.Background(), model.Event{}))

	publisher = NewEventPublisher(config.EventsConfig{Enabled: true, Brokers: []string{"localhost:9092"}, Topic: "consent-events"})
	_, ok = publisher.(*KafkaEventPublisher)
	assert.True(t, ok)
	assert.NoError(t, publisher.Close())
}
