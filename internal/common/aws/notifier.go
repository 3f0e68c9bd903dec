// internal/common/aws/notifier.go
package aws

import (
	"context"
	"fmt"

	apperrors "esg-retrofit-workers/internal/common/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

const (
	ChannelSNS   = "sns"
	ChannelEmail = "email"
)

type NotifierConfig struct {
	TopicARN   string
	From       string
	Recipients []string
}

// Notifier delivers report summaries to an SNS topic and to email recipients via SES.
type Notifier struct {
	sns    SNSService
	ses    SESService
	config NotifierConfig
}

// Delivery is the per-channel outcome of one notification.
type Delivery struct {
	Channel   string `json:"channel"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

func NewNotifier(snsClient SNSService, sesClient SESService, cfg NotifierConfig) *Notifier {
	return &Notifier{sns: snsClient, ses: sesClient, config: cfg}
}

// NewNotifierFromRegion builds SNS and SES clients from the default credential chain.
func NewNotifierFromRegion(ctx context.Context, region string, cfg NotifierConfig) (*Notifier, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewNotifier(sns.NewFromConfig(awsCfg), ses.NewFromConfig(awsCfg), cfg), nil
}

// Notify sends to every configured channel. Channel failures are reported per delivery
// and joined into the returned error; one failing channel does not stop the others.
func (n *Notifier) Notify(ctx context.Context, subject, body string) ([]Delivery, error) {
	var (
		deliveries []Delivery
		firstErr   error
	)

	if n.config.TopicARN != "" && n.sns != nil {
		d, err := n.publish(ctx, subject, body)
		deliveries = append(deliveries, d)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if len(n.config.Recipients) > 0 && n.ses != nil {
		d, err := n.email(ctx, subject, body)
		deliveries = append(deliveries, d)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return deliveries, firstErr
}

func (n *Notifier) publish(ctx context.Context, subject, body string) (Delivery, error) {
	out, err := n.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.config.TopicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(body),
	})
	if err != nil {
		return Delivery{Channel: ChannelSNS, Error: err.Error()},
			apperrors.NewNotificationSendFailedError(ChannelSNS, err)
	}
	return Delivery{Channel: ChannelSNS, MessageID: aws.ToString(out.MessageId)}, nil
}

func (n *Notifier) email(ctx context.Context, subject, body string) (Delivery, error) {
	out, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &sestypes.Destination{ToAddresses: n.config.Recipients},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
			},
		},
		Source: aws.String(n.config.From),
	})
	if err != nil {
		return Delivery{Channel: ChannelEmail, Error: err.Error()},
			apperrors.NewNotificationSendFailedError(ChannelEmail, err)
	}
	return Delivery{Channel: ChannelEmail, MessageID: aws.ToString(out.MessageId)}, nil
}
