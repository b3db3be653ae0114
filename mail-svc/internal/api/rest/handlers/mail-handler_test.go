package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/mail-svc/internal/dto"
)

type fakeMailer struct {
	otp, welcome []dto.NotificationEvent
	err          error
}

func (f *fakeMailer) SendOTP(_ context.Context, ev dto.NotificationEvent) error {
	f.otp = append(f.otp, ev)
	return f.err
}

func (f *fakeMailer) SendWelcome(_ context.Context, ev dto.NotificationEvent) error {
	f.welcome = append(f.welcome, ev)
	return f.err
}

func payload(t *testing.T, ev dto.NotificationEvent) []byte {
	t.Helper()
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	return b
}

func TestHandleMessage_DispatchesByKey(t *testing.T) {
	m := &fakeMailer{}
	h := NewMailHandler(m, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, h.HandleMessage(ctx, []byte(dto.KeyOTP), payload(t, dto.NotificationEvent{Email: "a@x.com", Code: "123456"})))
	require.NoError(t, h.HandleMessage(ctx, []byte(dto.KeyRegistrationSuccess), payload(t, dto.NotificationEvent{Email: "a@x.com", Secret: "s3cret"})))

	require.Len(t, m.otp, 1)
	assert.Equal(t, "123456", m.otp[0].Code)
	require.Len(t, m.welcome, 1)
	assert.Equal(t, "s3cret", m.welcome[0].Secret)
}

func TestHandleMessage_FallsBackToKind(t *testing.T) {
	m := &fakeMailer{}
	h := NewMailHandler(m, zap.NewNop())

	err := h.HandleMessage(context.Background(), nil, payload(t, dto.NotificationEvent{Kind: dto.KindRegistrationSuccess, Email: "a@x.com", Secret: "s"}))
	require.NoError(t, err)
	assert.Len(t, m.welcome, 1)
}

func TestHandleMessage_UnknownAndInvalid(t *testing.T) {
	m := &fakeMailer{}
	h := NewMailHandler(m, zap.NewNop())
	ctx := context.Background()

	assert.NoError(t, h.HandleMessage(ctx, []byte("user.verify_email"), payload(t, dto.NotificationEvent{Email: "a@x.com"})))
	assert.Empty(t, m.otp)
	assert.Empty(t, m.welcome)

	assert.Error(t, h.HandleMessage(ctx, []byte(dto.KeyOTP), []byte("{not json")))

	m.err = errors.New("smtp down")
	assert.Error(t, h.HandleMessage(ctx, []byte(dto.KeyOTP), payload(t, dto.NotificationEvent{Email: "a@x.com", Code: "1"})))
}
