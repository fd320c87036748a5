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

package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aarogyaai/consent-service/internal/notification/dispatcher"
	"github.com/aarogyaai/consent-service/internal/notification/model"
	"github.com/aarogyaai/consent-service/internal/system/log"
)

// NotificationWorker delivers consent notifications off the request path.
type NotificationWorker struct {
	queue    chan *model.ConsentNotification
	notifier dispatcher.Notifier
	workers  int
	timeout  time.Duration
	wg       sync.WaitGroup
	start    sync.Once

	// mu guards stopped and the close of queue.
	mu      sync.RWMutex
	stopped bool
}

// NewNotificationWorker creates a worker with a bounded queue. Each delivery is given timeout.
func NewNotificationWorker(notifier dispatcher.Notifier, queueSize, workers int, timeout time.Duration) *NotificationWorker {
	if workers < 1 {
		workers = 1
	}
	return &NotificationWorker{
		queue:    make(chan *model.ConsentNotification, queueSize),
		notifier: notifier,
		workers:  workers,
		timeout:  timeout,
	}
}

// Start launches the delivery goroutines.
func (w *NotificationWorker) Start() {
	w.start.Do(func() {
		for i := 0; i < w.workers; i++ {
			w.wg.Add(1)
			go func() {
				defer w.wg.Done()
				for n := range w.queue {
					w.deliver(n)
				}
			}()
		}
	})
}

// Notify enqueues the notification. It never blocks; a full queue or a stopped worker drops the
// notification.
func (w *NotificationWorker) Notify(_ context.Context, n *model.ConsentNotification) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		log.GetLogger().Warn(fmt.Sprintf("Notification worker is stopped, dropping notification for consent request %s",
			n.ConsentID))
		return
	}
	select {
	case w.queue <- n:
	default:
		log.GetLogger().Warn(fmt.Sprintf("Notification queue is full, dropping notification for consent request %s",
			n.ConsentID))
	}
}

// Stop closes the queue and waits for queued notifications to be delivered.
func (w *NotificationWorker) Stop() {
	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		close(w.queue)
	}
	w.mu.Unlock()
	w.wg.Wait()
}

func (w *NotificationWorker) deliver(n *model.ConsentNotification) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	w.notifier.Notify(ctx, n)
}
