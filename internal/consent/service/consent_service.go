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
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aarogyaai/consent-service/internal/consent/model"
	"github.com/aarogyaai/consent-service/internal/consent/store"
	dirModel "github.com/aarogyaai/consent-service/internal/directory/model"
	dirStore "github.com/aarogyaai/consent-service/internal/directory/store"
	eventModel "github.com/aarogyaai/consent-service/internal/events/model"
	eventService "github.com/aarogyaai/consent-service/internal/events/service"
	"github.com/aarogyaai/consent-service/internal/notification/dispatcher"
	notificationModel "github.com/aarogyaai/consent-service/internal/notification/model"
	"github.com/aarogyaai/consent-service/internal/system/cache"
	"github.com/aarogyaai/consent-service/internal/system/config"
	"github.com/aarogyaai/consent-service/internal/system/constants"
	sysContext "github.com/aarogyaai/consent-service/internal/system/context"
	errors2 "github.com/aarogyaai/consent-service/internal/system/errors"
	"github.com/aarogyaai/consent-service/internal/system/log"
)

const (
	defaultRequesterName = "A Doctor"
	requesterNameTTL     = 10 * time.Minute
)

var subjectExternalIDPattern = regexp.MustCompile(constants.SubjectExternalIDPattern)

// ConsentServiceInterface is the consent protocol engine.
type ConsentServiceInterface interface {
	InitiateConsent(ctx context.Context, subjectExternalID, requesterID string) (*model.ConsentRequest, error)
	GetConsentStatus(ctx context.Context, consentID string) (*model.ConsentRequest, error)
	ApproveConsent(ctx context.Context, consentID string) (*model.ConsentRequest, error)
	RejectConsent(ctx context.Context, consentID string) (*model.ConsentRequest, error)
	GetPendingConsent(ctx context.Context, subjectID string) (*model.ConsentRequest, error)
	SweepConsents(ctx context.Context) SweepResult
}

// SweepResult counts the records touched by a sweep.
type SweepResult struct {
	Expired int
	Evicted int
}

// ConsentService implements ConsentServiceInterface.
type ConsentService struct {
	repository *store.ConsentRepository
	directory  dirStore.UserDirectoryInterface
	notifier   dispatcher.Notifier
	publisher  eventService.EventPublisherInterface
	settings   config.ConsentConfig
	now        func() time.Time
	newID      func() string

	// requester display names used in notifications
	requesterNames *cache.Cache[string]
}

// Option customises a ConsentService.
type Option func(*ConsentService)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *ConsentService) {
		s.now = now
	}
}

// WithIDGenerator replaces the consent id generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *ConsentService) {
		s.newID = newID
	}
}

// NewConsentService wires the engine. A nil notifier or publisher disables that side channel.
func NewConsentService(repository *store.ConsentRepository, directory dirStore.UserDirectoryInterface,
	notifier dispatcher.Notifier, publisher eventService.EventPublisherInterface, settings config.ConsentConfig,
	opts ...Option) *ConsentService {

	if notifier == nil {
		notifier = dispatcher.NoopNotifier{}
	}
	if publisher == nil {
		publisher = eventService.NoopEventPublisher{}
	}
	s := &ConsentService{
		repository: repository,
		directory:  directory,
		notifier:   notifier,
		publisher:  publisher,
		settings:   settings,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.requesterNames = cache.NewCacheWithClock[string](requesterNameTTL, s.now)
	return s
}

// InitiateConsent creates a pending consent request for the subject identified by email or ABHA id.
func (s *ConsentService) InitiateConsent(ctx context.Context, subjectExternalID, requesterID string) (*model.ConsentRequest, error) {

	logger := log.GetLogger()
	subjectExternalID = strings.TrimSpace(subjectExternalID)
	if !subjectExternalIDPattern.MatchString(subjectExternalID) {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.INVALID_SUBJECT_ID.Code,
			Message:     errors2.INVALID_SUBJECT_ID.Message,
			Description: "Subject identifier must look like 'name@abdm' or an email address.",
		}, http.StatusBadRequest)
	}

	subject, err := s.directory.FindBySubjectExternalID(ctx, subjectExternalID)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.SUBJECT_NOT_FOUND.Code,
			Message:     errors2.SUBJECT_NOT_FOUND.Message,
			Description: fmt.Sprintf("No patient is registered with identifier %s.", subjectExternalID),
		}, http.StatusNotFound)
	}

	now := s.now().UTC()
	if previous := s.livePendingConsent(subject, now); previous != nil {
		if s.settings.RejectWhenPending {
			return nil, errors2.NewClientError(errors2.ErrorMessage{
				Code:        errors2.CONSENT_ALREADY_PENDING.Code,
				Message:     errors2.CONSENT_ALREADY_PENDING.Message,
				Description: fmt.Sprintf("Consent request %s is still awaiting a decision.", previous.ConsentID),
			}, http.StatusConflict)
		}
		logger.Warn(fmt.Sprintf("Replacing pending consent request %s of subject %s", previous.ConsentID, subject.ID))
		s.audit(ctx, log.ActionReplacePendingConsent, previous.ConsentID, map[string]string{
			"subjectId": subject.ID,
		})
	}

	consent := &model.ConsentRequest{
		ConsentID:         s.newID(),
		SubjectID:         subject.ID,
		SubjectExternalID: subject.ExternalID(),
		RequesterID:       requesterID,
		Status:            model.StatusPending,
		Scope:             append([]string(nil), s.settings.Scope...),
		Purpose:           s.settings.Purpose,
		RequestedAt:       now,
		ExpiresAt:         now.Add(s.settings.Validity),
	}

	if err := s.repository.Save(ctx, consent); err != nil {
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.INITIATE_CONSENT.Code,
			Message:     errors2.INITIATE_CONSENT.Message,
			Description: fmt.Sprintf("Failed to record consent request for subject %s", subject.ID),
		}, err)
	}

	logger.Info(fmt.Sprintf("Consent request %s initiated for subject %s", consent.ConsentID, subject.ID))
	s.audit(ctx, log.ActionInitiateConsent, consent.ConsentID, map[string]string{
		"subjectId":   subject.ID,
		"requesterId": requesterID,
	})
	s.publish(ctx, eventModel.EventTypeConsentInitiated, consent)
	s.notifier.Notify(ctx, s.buildNotification(ctx, consent, subject))

	return consent.Clone(), nil
}

// GetConsentStatus returns the consent request, expiring it first if its deadline has passed.
func (s *ConsentService) GetConsentStatus(ctx context.Context, consentID string) (*model.ConsentRequest, error) {

	consent, err := s.resolve(ctx, consentID)
	if err != nil {
		return nil, err
	}
	if consent.IsExpiredAt(s.now()) {
		return s.expire(ctx, consentID)
	}
	return consent, nil
}

// ApproveConsent moves a pending request to approved.
func (s *ConsentService) ApproveConsent(ctx context.Context, consentID string) (*model.ConsentRequest, error) {
	return s.decide(ctx, consentID, model.StatusApproved)
}

// RejectConsent moves a pending request to rejected.
func (s *ConsentService) RejectConsent(ctx context.Context, consentID string) (*model.ConsentRequest, error) {
	return s.decide(ctx, consentID, model.StatusRejected)
}

// GetPendingConsent returns the pending consent request addressed to the subject.
func (s *ConsentService) GetPendingConsent(ctx context.Context, subjectID string) (*model.ConsentRequest, error) {

	subject, err := s.directory.FindByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.SUBJECT_NOT_FOUND.Code,
			Message:     errors2.SUBJECT_NOT_FOUND.Message,
			Description: fmt.Sprintf("No user is registered with id %s.", subjectID),
		}, http.StatusNotFound)
	}
	if subject.PendingConsent == nil {
		return nil, noPendingConsentError(subjectID)
	}

	consent, err := s.GetConsentStatus(ctx, subject.PendingConsent.ConsentID)
	if err != nil {
		var clientError *errors2.ClientError
		if errors.As(err, &clientError) && clientError.StatusCode == http.StatusNotFound {
			return nil, noPendingConsentError(subjectID)
		}
		return nil, err
	}
	if consent.Status != model.StatusPending || consent.SubjectID != subject.ID {
		return nil, noPendingConsentError(subjectID)
	}
	return consent, nil
}

// SweepConsents expires overdue pending requests and evicts decided requests older than the
// retention period from memory.
func (s *ConsentService) SweepConsents(ctx context.Context) SweepResult {

	var result SweepResult
	now := s.now()
	var evict []string

	for _, consent := range s.repository.Requests().Snapshot() {
		switch {
		case consent.IsExpiredAt(now):
			if expired, err := s.expire(ctx, consent.ConsentID); err == nil && expired.Status == model.StatusExpired {
				result.Expired++
			}
		case consent.IsTerminal() && s.settings.Retention > 0:
			closedAt := consent.ExpiresAt
			if decidedAt := consent.DecidedAt(); decidedAt != nil {
				closedAt = *decidedAt
			}
			if now.Sub(closedAt) > s.settings.Retention {
				evict = append(evict, consent.ConsentID)
			}
		}
	}

	if len(evict) > 0 {
		s.repository.Requests().Evict(evict...)
		result.Evicted = len(evict)
	}
	if result.Expired > 0 || result.Evicted > 0 {
		log.GetLogger().Info("Consent sweep completed",
			log.Int("expired", result.Expired), log.Int("evicted", result.Evicted))
		s.audit(ctx, log.ActionSweepConsents, "", result)
	}
	return result
}

func (s *ConsentService) resolve(ctx context.Context, consentID string) (*model.ConsentRequest, error) {

	if strings.TrimSpace(consentID) == "" {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.CONSENT_ID_REQUIRED.Code,
			Message:     errors2.CONSENT_ID_REQUIRED.Message,
			Description: "Consent id is required to resolve the consent request.",
		}, http.StatusBadRequest)
	}

	consent, err := s.repository.Resolve(ctx, consentID)
	if err != nil {
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.RESOLVE_CONSENT.Code,
			Message:     errors2.RESOLVE_CONSENT.Message,
			Description: fmt.Sprintf("Failed to resolve consent request %s", consentID),
		}, err)
	}
	if consent == nil {
		return nil, consentNotFoundError(consentID)
	}
	return consent, nil
}

// expire marks the request expired if it is still pending and overdue, and returns the current record.
func (s *ConsentService) expire(ctx context.Context, consentID string) (*model.ConsentRequest, error) {

	now := s.now()
	expired := false
	consent, err := s.repository.Requests().Update(consentID, func(c *model.ConsentRequest) error {
		if c.IsExpiredAt(now) {
			c.Status = model.StatusExpired
			expired = true
		}
		return nil
	})
	if errors.Is(err, store.ErrConsentRequestNotFound) {
		return nil, consentNotFoundError(consentID)
	}
	if err != nil {
		return nil, err
	}
	if expired {
		s.afterTransition(ctx, consent, log.ActionExpireConsent, eventModel.EventTypeConsentExpired)
	}
	return consent, nil
}

func (s *ConsentService) decide(ctx context.Context, consentID, status string) (*model.ConsentRequest, error) {

	if _, err := s.resolve(ctx, consentID); err != nil {
		return nil, err
	}

	now := s.now()
	expired := false
	consent, err := s.repository.Requests().Update(consentID, func(c *model.ConsentRequest) error {
		if c.IsExpiredAt(now) {
			c.Status = model.StatusExpired
			expired = true
			return nil
		}
		if c.Status != model.StatusPending {
			return newConflictError(c.Status, consentID)
		}
		decidedAt := now.UTC()
		c.Status = status
		if status == model.StatusApproved {
			c.ApprovedAt = &decidedAt
		} else {
			c.RejectedAt = &decidedAt
		}
		return nil
	})
	if errors.Is(err, store.ErrConsentRequestNotFound) {
		return nil, consentNotFoundError(consentID)
	}
	if err != nil {
		return nil, err
	}

	if expired {
		s.afterTransition(ctx, consent, log.ActionExpireConsent, eventModel.EventTypeConsentExpired)
		return nil, newConflictError(model.StatusExpired, consentID)
	}

	if status == model.StatusApproved {
		log.GetLogger().Info(fmt.Sprintf("Consent request %s approved", consentID))
		s.afterTransition(ctx, consent, log.ActionApproveConsent, eventModel.EventTypeConsentApproved)
	} else {
		log.GetLogger().Info(fmt.Sprintf("Consent request %s rejected", consentID))
		s.afterTransition(ctx, consent, log.ActionRejectConsent, eventModel.EventTypeConsentRejected)
	}
	return consent, nil
}

func (s *ConsentService) afterTransition(ctx context.Context, consent *model.ConsentRequest, action, eventType string) {
	s.repository.SyncProjection(ctx, consent)
	s.audit(ctx, action, consent.ConsentID, map[string]string{
		"subjectId": consent.SubjectID,
		"status":    consent.Status,
	})
	s.publish(ctx, eventType, consent)
}

// livePendingConsent returns the subject's projection if it still describes an undecided,
// unexpired request.
func (s *ConsentService) livePendingConsent(subject *dirModel.Subject, now time.Time) *dirModel.PendingConsent {
	pending := subject.PendingConsent
	if pending == nil || pending.Status != model.StatusPending {
		return nil
	}
	if current, ok := s.repository.Requests().Get(pending.ConsentID); ok {
		if current.Status != model.StatusPending || current.IsExpiredAt(now) {
			return nil
		}
		return pending
	}
	if now.After(pending.RequestedAt.Add(s.settings.Validity)) {
		return nil
	}
	return pending
}

func (s *ConsentService) buildNotification(ctx context.Context, consent *model.ConsentRequest,
	subject *dirModel.Subject) *notificationModel.ConsentNotification {

	n := ToNotification(consent)
	n.SubjectName = subject.Name
	n.SubjectEmail = subject.Email
	n.RequesterName = s.requesterName(ctx, consent.RequesterID)
	return n
}

func (s *ConsentService) requesterName(ctx context.Context, requesterID string) string {
	if name, ok := s.requesterNames.Get(requesterID); ok {
		return name
	}

	requester, err := s.directory.FindByID(ctx, requesterID)
	if err != nil {
		log.GetLogger().Debug("Failed to resolve requester name", log.String("requesterId", requesterID),
			log.Error(err))
		return defaultRequesterName
	}
	if requester == nil || requester.Name == "" {
		return defaultRequesterName
	}
	s.requesterNames.Set(requesterID, requester.Name)
	return requester.Name
}

// ToNotification maps a consent request to the notification sent to its subject.
func ToNotification(consent *model.ConsentRequest) *notificationModel.ConsentNotification {
	return &notificationModel.ConsentNotification{
		ConsentID:         consent.ConsentID,
		SubjectExternalID: consent.SubjectExternalID,
		Purpose:           consent.Purpose,
		Scope:             append([]string(nil), consent.Scope...),
		RequestedAt:       consent.RequestedAt,
		ExpiresAt:         consent.ExpiresAt,
	}
}

func (s *ConsentService) publish(ctx context.Context, eventType string, consent *model.ConsentRequest) {
	event := eventModel.Event{
		EventId:        uuid.NewString(),
		EventType:      eventType,
		ConsentId:      consent.ConsentID,
		SubjectId:      consent.SubjectID,
		RequesterId:    consent.RequesterID,
		Status:         consent.Status,
		EventTimestamp: s.now().Unix(),
		TraceId:        sysContext.GetTraceID(ctx),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.GetLogger().Warn(fmt.Sprintf("Failed to publish %s event for consent request %s", eventType,
			consent.ConsentID), log.Error(err))
	}
}

func (s *ConsentService) audit(ctx context.Context, action, consentID string, data interface{}) {
	event := log.AuditEvent{
		InitiatorType: log.InitiatorTypeSystem,
		TargetID:      consentID,
		TargetType:    log.TargetTypeConsentRequest,
		ActionID:      action,
		TraceID:       sysContext.GetTraceID(ctx),
		Data:          data,
	}
	if principal := sysContext.GetPrincipal(ctx); principal != nil {
		event.InitiatorID = principal.UserID
		event.InitiatorType = log.InitiatorTypeUser
	}
	log.GetLogger().Audit(event)
}

func consentNotFoundError(consentID string) error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.CONSENT_NOT_FOUND.Code,
		Message:     errors2.CONSENT_NOT_FOUND.Message,
		Description: fmt.Sprintf("Consent request %s does not exist.", consentID),
	}, http.StatusNotFound)
}

func noPendingConsentError(subjectID string) error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.NO_PENDING_CONSENT.Code,
		Message:     errors2.NO_PENDING_CONSENT.Message,
		Description: fmt.Sprintf("User %s has no consent request awaiting a decision.", subjectID),
	}, http.StatusNotFound)
}
