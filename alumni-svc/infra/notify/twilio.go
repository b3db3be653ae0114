package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/dto"
)

type smsSender interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type TwilioNotifier struct {
	client smsSender
	from   string
	org    string
}

func NewTwilioNotifier(accountSID, authToken, from, org string) *TwilioNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioNotifier{client: client.Api, from: from, org: org}
}

func (t *TwilioNotifier) Send(ctx context.Context, n dto.Notification) error {
	if n.Channel != dto.ChannelSMS {
		return errors.New("notify: twilio notifier only carries sms")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(n.To)
	params.SetFrom(t.from)
	params.SetBody(plainBody(n, t.org))

	if _, err := t.client.CreateMessage(params); err != nil {
		return fmt.Errorf("send sms via twilio: %w", err)
	}
	return nil
}
