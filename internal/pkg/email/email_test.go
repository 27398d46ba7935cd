package email

import (
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/cmlabs-hris/workforce-backend-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	addr string
	to   []string
	msg  string
}

func newTestService(t *testing.T, cfg config.SMTPConfig, fail int) (*emailServiceImpl, *[]captured) {
	t.Helper()
	svc, err := NewEmailService(cfg)
	require.NoError(t, err)

	impl := svc.(*emailServiceImpl)
	impl.backoff = 0
	var calls []captured
	impl.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		calls = append(calls, captured{addr: addr, to: to, msg: string(msg)})
		if len(calls) <= fail {
			return errors.New("421 try again later")
		}
		return nil
	}
	return impl, &calls
}

var smtpCfg = config.SMTPConfig{
	Host:     "smtp.example.com",
	Port:     587,
	From:     "noreply@example.com",
	FromName: "Workforce",
	HRInbox:  "hr@example.com",
}

func TestSendAccountBlocked(t *testing.T) {
	svc, calls := newTestService(t, smtpCfg, 0)

	err := svc.SendAccountBlocked("Asha", "asha@example.com", []string{"2026-03-07", "2026-03-08", "2026-03-09"})
	require.NoError(t, err)
	require.Len(t, *calls, 1)

	call := (*calls)[0]
	assert.Equal(t, "smtp.example.com:587", call.addr)
	assert.Equal(t, []string{"hr@example.com"}, call.to)
	assert.Contains(t, call.msg, "Subject: Account blocked: Asha\r\n")
	assert.Contains(t, call.msg, "asha@example.com")
	assert.Equal(t, 3, strings.Count(call.msg, "<li>2026-03-0"))
}

func TestSendAccountBlocked_Retries(t *testing.T) {
	svc, calls := newTestService(t, smtpCfg, 2)
	require.NoError(t, svc.SendAccountBlocked("Asha", "asha@example.com", nil))
	assert.Len(t, *calls, 3)

	svc, calls = newTestService(t, smtpCfg, maxRetries)
	err := svc.SendAccountBlocked("Asha", "asha@example.com", nil)
	assert.Error(t, err)
	assert.Len(t, *calls, maxRetries)
}

func TestSendAccountBlocked_NotConfigured(t *testing.T) {
	noInbox := smtpCfg
	noInbox.HRInbox = ""
	svc, calls := newTestService(t, noInbox, 0)
	require.NoError(t, svc.SendAccountBlocked("Asha", "asha@example.com", nil))
	assert.Empty(t, *calls)

	noHost := smtpCfg
	noHost.Host = ""
	svc, calls = newTestService(t, noHost, 0)
	require.NoError(t, svc.SendAccountBlocked("Asha", "asha@example.com", nil))
	assert.Empty(t, *calls)
}
