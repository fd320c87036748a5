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

package dispatcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/aarogyaai/consent-service/internal/notification/model"
	"github.com/aarogyaai/consent-service/internal/system/log"
)

// Dispatcher delivers a consent notification over one channel.
type Dispatcher interface {
	Channel() string
	Dispatch(ctx context.Context, n *model.ConsentNotification) error
}

// Notifier accepts notifications without reporting delivery failures to the caller.
type Notifier interface {
	Notify(ctx context.Context, n *model.ConsentNotification)
}

// MultiDispatcher fans a notification out to every configured channel.
type MultiDispatcher struct {
	dispatchers []Dispatcher
}

// NewMultiDispatcher combines the given dispatchers. Nil entries are ignored.
func NewMultiDispatcher(dispatchers ...Dispatcher) *MultiDispatcher {
	m := &MultiDispatcher{}
	for _, d := range dispatchers {
		if d != nil {
			m.dispatchers = append(m.dispatchers, d)
		}
	}
	return m
}

func (m *MultiDispatcher) Channel() string {
	return "multi"
}

// Dispatch tries every channel and joins the failures.
func (m *MultiDispatcher) Dispatch(ctx context.Context, n *model.ConsentNotification) error {
	var errs []error
	for _, d := range m.dispatchers {
		if err := d.Dispatch(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.Channel(), err))
		}
	}
	return errors.Join(errs...)
}

// BestEffort sends notifications once and only logs failures.
type BestEffort struct {
	dispatcher Dispatcher
}

// NewBestEffort wraps a dispatcher so that delivery failures never reach the caller.
func NewBestEffort(dispatcher Dispatcher) *BestEffort {
	return &BestEffort{dispatcher: dispatcher}
}

func (b *BestEffort) Notify(ctx context.Context, n *model.ConsentNotification) {
	logger := log.GetLogger()
	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Sprintf("Notification for consent request %s panicked", n.ConsentID),
				log.Any("panic", r))
		}
	}()

	if err := b.dispatcher.Dispatch(ctx, n); err != nil {
		logger.Warn(fmt.Sprintf("Failed to deliver notification for consent request %s", n.ConsentID),
			log.Error(err))
		return
	}
	logger.Debug(fmt.Sprintf("Notification delivered for consent request %s", n.ConsentID))
}

// NoopNotifier drops every notification.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, *model.ConsentNotification) {}
