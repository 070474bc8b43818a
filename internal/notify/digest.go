// Package notify tells an employer what a match generation run produced.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	awsclients "match-workers/internal/common/aws"
	apperrors "match-workers/internal/common/errors"
	"match-workers/internal/common/logger"
	"match-workers/internal/matching/driver"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type Config struct {
	EmailEnabled bool
	FromEmail    string
	SMSEnabled   bool
	SMSSenderID  string
}

// Recipient is where a digest goes. Either field may be empty.
type Recipient struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Sent reports which channels delivered.
type Sent struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
}

type Notifier struct {
	cfg    Config
	ses    awsclients.SESAPI
	sns    awsclients.SNSAPI
	logger logger.Logger
}

func New(cfg Config, sesClient awsclients.SESAPI, snsClient awsclients.SNSAPI, log logger.Logger) *Notifier {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Notifier{cfg: cfg, ses: sesClient, sns: snsClient, logger: log}
}

// SendDigest mails the run summary when matches were written, and texts the
// recipient when any of them is in the top tier. A failing channel does not
// stop the other one; their errors are joined.
func (n *Notifier) SendDigest(ctx context.Context, employerID string, to Recipient, tally driver.Tally) (Sent, error) {
	var (
		sent Sent
		errs []error
	)
	if tally.Written == 0 {
		return sent, nil
	}

	if n.cfg.EmailEnabled && n.ses != nil && to.Email != "" {
		if err := n.sendEmail(ctx, to.Email, employerID, tally); err != nil {
			errs = append(errs, apperrors.NewNotificationError("email", err))
		} else {
			sent.Email = true
		}
	}

	if n.cfg.SMSEnabled && n.sns != nil && to.Phone != "" && tally.Excellent > 0 {
		if err := n.sendSMS(ctx, to.Phone, tally); err != nil {
			errs = append(errs, apperrors.NewNotificationError("sms", err))
		} else {
			sent.SMS = true
		}
	}

	n.logger.Info("match digest processed", map[string]interface{}{
		"employerId": employerID,
		"email":      sent.Email,
		"sms":        sent.SMS,
	})
	return sent, errors.Join(errs...)
}

func (n *Notifier) sendEmail(ctx context.Context, to, employerID string, tally driver.Tally) error {
	subject, body := renderEmail(employerID, tally)
	_, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.cfg.FromEmail),
	})
	return err
}

func (n *Notifier) sendSMS(ctx context.Context, to string, tally driver.Tally) error {
	input := &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(renderSMS(tally)),
	}
	if n.cfg.SMSSenderID != "" {
		input.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(n.cfg.SMSSenderID),
			},
		}
	}
	_, err := n.sns.Publish(ctx, input)
	return err
}

func renderEmail(employerID string, tally driver.Tally) (subject, body string) {
	subject = fmt.Sprintf("%d new candidate matches", tally.Written)
	if tally.Written == 1 {
		subject = "1 new candidate match"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New matches were generated for employer %s.\n\n", employerID)
	fmt.Fprintf(&b, "Written: %d\n", tally.Written)
	fmt.Fprintf(&b, "Excellent matches: %d\n", tally.Excellent)
	fmt.Fprintf(&b, "Pairs considered: %d\n", tally.Total)

	if len(tally.Top) > 0 {
		b.WriteString("\nTop matches:\n")
		for i, rec := range tally.Top {
			fmt.Fprintf(&b, "%d. candidate %s for job %s: %.1f (%s)\n",
				i+1, rec.CandidateID, rec.JobID, rec.Result.OverallScore, rec.Result.AIRecommendation)
		}
	}
	return subject, b.String()
}

func renderSMS(tally driver.Tally) string {
	if tally.Excellent == 1 {
		return fmt.Sprintf("1 excellent candidate match is waiting for review (%d new in total).", tally.Written)
	}
	return fmt.Sprintf("%d excellent candidate matches are waiting for review (%d new in total).", tally.Excellent, tally.Written)
}
