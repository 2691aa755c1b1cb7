package sender

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/vrxmike/biodata/internal/lib/smtp"
	"github.com/vrxmike/biodata/internal/models"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
	data bytes.Buffer
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

type nopWriteCloser struct{ *bytes.Buffer }

func (nopWriteCloser) Close() error { return nil }

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	return nopWriteCloser{&m.data}, args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSenderService_SendOutboundMail(t *testing.T) {
	t.Run("delivers a queued envelope", func(t *testing.T) {
		client := new(MockSMTPClient)
		transport := new(MockTransport)

		transport.On("Connect").Return(client, nil).Once()
		transport.On("GetSMTPUser").Return("no-reply@example.com")
		client.On("Mail", "no-reply@example.com").Return(nil).Once()
		client.On("Rcpt", "user@example.com").Return(nil).Once()
		client.On("Data").Return(nil).Once()
		client.On("Quit").Return(nil).Once()
		client.On("Close").Return(nil).Once()

		svc := NewSenderService(newNoopLogger(), transport)

		body, err := json.Marshal(models.EmailMessage{
			To:      "user@example.com",
			From:    "no-reply@example.com",
			Subject: "Email Verification",
			Body:    "Please verify your email address",
		})
		assert.NoError(t, err)

		assert.NoError(t, svc.SendOutboundMail(body))
		assert.Contains(t, client.data.String(), "Subject: Email Verification")
		assert.Contains(t, client.data.String(), "Please verify your email address")

		transport.AssertExpectations(t)
		client.AssertExpectations(t)
	})

	t.Run("malformed envelope", func(t *testing.T) {
		svc := NewSenderService(newNoopLogger(), new(MockTransport))
		assert.Error(t, svc.SendOutboundMail([]byte("not a json")))
	})

	t.Run("connect failure", func(t *testing.T) {
		transport := new(MockTransport)
		transport.On("Connect").Return(nil, errors.New("dial failed")).Once()

		svc := NewSenderService(newNoopLogger(), transport)

		body, _ := json.Marshal(models.EmailMessage{To: "user@example.com"})
		assert.Error(t, svc.SendOutboundMail(body))
		transport.AssertExpectations(t)
	})
}
