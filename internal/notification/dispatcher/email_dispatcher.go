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
	"fmt"

	"github.com/aarogyaai/consent-service/internal/notification/model"
	"github.com/aarogyaai/consent-service/internal/system/client"
	"github.com/aarogyaai/consent-service/internal/system/config"
	"github.com/aarogyaai/consent-service/internal/system/constants"
	"github.com/aarogyaai/consent-service/internal/system/log"
)

// EmailWebhookDispatcher sends consent emails through the mail webhook.
type EmailWebhookDispatcher struct {
	webhook     *client.WebhookClient
	frontendURL string
}

// NewEmailWebhookDispatcher creates a dispatcher from the email configuration.
func NewEmailWebhookDispatcher(cfg config.EmailConfig) *EmailWebhookDispatcher {
	return &EmailWebhookDispatcher{
		webhook:     client.NewWebhookClient(cfg.WebhookURL, cfg.Timeout),
		frontendURL: cfg.FrontendURL,
	}
}

func (d *EmailWebhookDispatcher) Channel() string {
	return constants.ChannelEmail
}

func (d *EmailWebhookDispatcher) Dispatch(ctx context.Context, n *model.ConsentNotification) error {
	if n.SubjectEmail == "" {
		log.GetLogger().Debug(fmt.Sprintf("Subject of consent request %s has no email address", n.ConsentID))
		return nil
	}
	return d.webhook.PostJSON(ctx, model.BuildConsentEmail(n, d.frontendURL))
}
