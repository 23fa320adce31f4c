package email

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"fitzone/internal/logger"
	"fitzone/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey       = "emails"
	failedQueueKey = "emails:failed"
	maxTries       = 3
)

type EmailJob struct {
	Type    string    `json:"type"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// Notifier is the set of notifications domain services emit.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, to, name, className, trainer string, when time.Time) error
	SendBookingCancellation(ctx context.Context, to, name, className string, when time.Time, reason string) error
	SendPaymentSuccess(ctx context.Context, to, name, plan, orderID string, amount int64, expiry time.Time) error
	SendMembershipGranted(ctx context.Context, to, name, plan string, expiry time.Time) error
	SendTrainerDecision(ctx context.Context, to, name string, approved bool, reason string) error
}

type Service struct {
	redis      *redis.Client
	sender     Sender
	retryDelay time.Duration
	popTimeout time.Duration
}

func New(rdb *redis.Client, sender Sender) *Service {
	return &Service{
		redis:      rdb,
		sender:     sender,
		retryDelay: 5 * time.Second,
		popTimeout: 2 * time.Second,
	}
}

// Send queues a Markdown email; it is rendered to HTML when the worker delivers it.
func (s *Service) Send(ctx context.Context, emailType, to, name, subject, body string) error {
	job := EmailJob{
		Type:    emailType,
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal email job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		logger.Errorf("Failed to queue email to %s: %v", to, err)
		return err
	}

	logger.Infof("Email queued: %s to %s", subject, to)
	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

// processNext pops one job and delivers it. It reports whether a job was handled.
func (s *Service) processNext(ctx context.Context) bool {
	result, err := s.redis.BRPop(ctx, s.popTimeout, queueKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			logger.WithError(err).Warn("email queue pop failed")
			sleep(ctx, s.popTimeout)
		}
		return false
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad email data: %v", err)
		return true
	}

	job.Tries++
	logger.Infof("Sending email to %s (attempt %d)", job.To, job.Tries)
	if err := s.deliver(ctx, job); err != nil {
		logger.Errorf("Failed to send email to %s: %v", job.To, err)
		metrics.RecordEmail(job.Type, "failed")

		if job.Tries < maxTries {
			sleep(ctx, s.retryDelay)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.WithoutCancel(ctx), queueKey, string(data))
			logger.Infof("Retrying email to %s (attempt %d)", job.To, job.Tries+1)
		} else {
			logger.Errorf("Email to %s failed after %d attempts", job.To, maxTries)
			s.saveFailed(ctx, job, err)
		}
		return true
	}

	metrics.RecordEmail(job.Type, "success")
	logger.Infof("Email sent successfully to %s", job.To)
	return true
}

func (s *Service) deliver(ctx context.Context, job EmailJob) error {
	html, err := RenderMarkdown(job.Body)
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, Message{
		To:      job.To,
		Name:    job.Name,
		Subject: job.Subject,
		HTML:    html,
		Text:    job.Body,
	})
}

func (s *Service) saveFailed(ctx context.Context, job EmailJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.WithoutCancel(ctx), failedQueueKey, string(data))
	logger.Errorf("Email moved to failed queue: %s", job.To)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	metrics.EmailQueueLength.Set(float64(length))
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}

func (s *Service) sendTemplate(ctx context.Context, emailType, to, name, subject string, data interface{}) error {
	body, err := renderTemplate(emailType, data)
	if err != nil {
		return err
	}
	return s.Send(ctx, emailType, to, name, subject, body)
}

func (s *Service) SendBookingConfirmation(ctx context.Context, to, name, className, trainer string, when time.Time) error {
	return s.sendTemplate(ctx, TypeBookingConfirmation, to, name, "Booking Confirmed - "+className, map[string]interface{}{
		"Name": name, "ClassName": className, "Trainer": trainer, "When": when,
	})
}

func (s *Service) SendBookingCancellation(ctx context.Context, to, name, className string, when time.Time, reason string) error {
	return s.sendTemplate(ctx, TypeBookingCancellation, to, name, "Booking Cancelled - "+className, map[string]interface{}{
		"Name": name, "ClassName": className, "When": when, "Reason": reason,
	})
}

func (s *Service) SendPaymentSuccess(ctx context.Context, to, name, plan, orderID string, amount int64, expiry time.Time) error {
	return s.sendTemplate(ctx, TypePaymentSuccess, to, name, "Payment Received - "+plan+" Membership", map[string]interface{}{
		"Name": name, "Plan": plan, "OrderID": orderID, "Amount": amount, "Expiry": expiry,
	})
}

func (s *Service) SendMembershipGranted(ctx context.Context, to, name, plan string, expiry time.Time) error {
	return s.sendTemplate(ctx, TypeMembershipGranted, to, name, "Your "+plan+" Membership Is Active", map[string]interface{}{
		"Name": name, "Plan": plan, "Expiry": expiry,
	})
}

func (s *Service) SendTrainerDecision(ctx context.Context, to, name string, approved bool, reason string) error {
	if approved {
		return s.sendTemplate(ctx, TypeTrainerApproved, to, name, "Your Trainer Account Is Approved", map[string]interface{}{
			"Name": name,
		})
	}
	return s.sendTemplate(ctx, TypeTrainerRejected, to, name, "Update On Your Trainer Application", map[string]interface{}{
		"Name": name, "Reason": reason,
	})
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
