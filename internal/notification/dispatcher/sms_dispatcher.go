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
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/aarogyaai/consent-service/internal/notification/model"
	"github.com/aarogyaai/consent-service/internal/system/config"
	"github.com/aarogyaai/consent-service/internal/system/constants"
)

// SQSSender is the subset of the SQS client used to publish SMS requests.
type SQSSender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SMSQueueDispatcher publishes SMS notifications to the queue read by the SMS gateway.
type SMSQueueDispatcher struct {
	sender   SQSSender
	queueURL string
}

// NewSMSQueueDispatcher creates a dispatcher for an already resolved queue.
func NewSMSQueueDispatcher(sender SQSSender, queueURL string) *SMSQueueDispatcher {
	return &SMSQueueDispatcher{sender: sender, queueURL: queueURL}
}

// NewSMSQueueDispatcherFromConfig loads AWS credentials from the environment and resolves the queue URL.
func NewSMSQueueDispatcherFromConfig(ctx context.Context, cfg config.SMSConfig) (*SMSQueueDispatcher, error) {

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	sqsClient := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	resp, err := sqsClient.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{QueueName: aws.String(cfg.QueueName)})
	if err != nil {
		return nil, fmt.Errorf("failed to get SQS queue URL for %s: %w", cfg.QueueName, err)
	}
	return NewSMSQueueDispatcher(sqsClient, aws.ToString(resp.QueueUrl)), nil
}

func (d *SMSQueueDispatcher) Channel() string {
	return constants.ChannelSMS
}

func (d *SMSQueueDispatcher) Dispatch(ctx context.Context, n *model.ConsentNotification) error {
	payload, err := json.Marshal(model.BuildSMSNotification(n))
	if err != nil {
		return err
	}
	_, err = d.sender.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(d.queueURL),
		MessageBody: aws.String(string(payload)),
	})
	return err
}
