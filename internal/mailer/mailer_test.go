package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type MockMailer struct {
	WasCalled bool
	LastTo    string
	LastTitle string
}

func (m *MockMailer) SendListingCreatedEmail(toEmail, carTitle string) error {
	m.WasCalled = true
	m.LastTo = toEmail
	m.LastTitle = carTitle
	return nil
}

func TestSendListingCreatedEmail_Mock(t *testing.T) {
	mock := &MockMailer{}
	err := mock.SendListingCreatedEmail("seller@example.com", "Toyota Corolla 2019")

	assert.NoError(t, err)
	assert.True(t, mock.WasCalled)
	assert.Equal(t, "seller@example.com", mock.LastTo)
	assert.Equal(t, "Toyota Corolla 2019", mock.LastTitle)
}
