package usecase

import (
	"context"
	"time"

	"job-board-backend/internal/domain"
	"job-board-backend/pkg/audit"
	"job-board-backend/pkg/email"
	"job-board-backend/pkg/logger"
)

const notifyTimeout = 10 * time.Second

// asyncNotifications is switched off in tests so deliveries are observable before assertions
var asyncNotifications = true

// Notifier delivers best-effort messages. Failures are logged and never returned.
type Notifier struct {
	email domain.EmailSender
	sms   domain.SMSSender
	audit *audit.Logger
	async bool
}

func NewNotifier(emailSender domain.EmailSender, smsSender domain.SMSSender, auditLog *audit.Logger) *Notifier {
	return &Notifier{email: emailSender, sms: smsSender, audit: auditLog, async: asyncNotifications}
}

func (n *Notifier) deliver(ctx context.Context, to *domain.User, subject, body string, renderErr error, smsText string) {
	if n == nil || to == nil {
		return
	}
	if renderErr != nil {
		logger.Log.Error("Failed to render notification", "error", renderErr)
		return
	}

	send := func(ctx context.Context) {
		if n.email != nil && to.Email != "" {
			if err := n.email.SendEmail(ctx, domain.Message{To: to.Email, Subject: subject, Body: body}); err != nil {
				n.failed(ctx, "email", to.ID, err)
			}
		}
		if n.sms != nil && to.Profile.Phone != "" && smsText != "" {
			if err := n.sms.SendSMS(ctx, to.Profile.Phone, smsText); err != nil {
				n.failed(ctx, "sms", to.ID, err)
			}
		}
	}

	if !n.async {
		send(ctx)
		return
	}
	// Detach from the request so delivery outlives the response
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		send(ctx)
	}()
}

func (n *Notifier) failed(ctx context.Context, channel, userID string, err error) {
	logger.Log.Warn("Notification delivery failed", "channel", channel, "user_id", userID, "error", err)
	n.audit.Log(ctx, audit.Event{
		Type:         audit.EventNotificationFailed,
		SubjectType:  "user_id",
		SubjectValue: userID,
		Details:      map[string]interface{}{"channel": channel},
	})
}

func (n *Notifier) jobDecision(ctx context.Context, poster *domain.User, job *domain.Job) {
	if poster == nil {
		return
	}
	approved := job.ApprovalStatus == domain.ApprovalApproved
	subject, body, err := email.JobDecisionEmail(poster.FirstName, job.Title, approved, job.RejectionReason)
	n.deliver(ctx, poster, subject, body, err, "")
}

func (n *Notifier) applicationStatus(ctx context.Context, applicant *domain.User, jobTitle string, status domain.ApplicationStatus) {
	if applicant == nil {
		return
	}
	subject, body, err := email.ApplicationStatusEmail(applicant.FirstName, jobTitle, string(status))
	n.deliver(ctx, applicant, subject, body, err, "Your application for "+jobTitle+" is now "+string(status)+".")
}

func (n *Notifier) interview(ctx context.Context, applicant *domain.User, jobTitle string, iv *domain.Interview) {
	if applicant == nil || iv == nil {
		return
	}
	subject, body, err := email.InterviewEmail(applicant.FirstName, jobTitle, iv.Date, iv.Time, iv.Type, iv.Location, iv.Notes)
	n.deliver(ctx, applicant, subject, body, err, "Interview for "+jobTitle+" on "+iv.Date+" at "+iv.Time+".")
}
