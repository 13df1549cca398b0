package mailer

import (
	"os"
	"strconv"
	"testing"

	"github.com/joho/godotenv"
)

func TestSendListingCreatedEmail_Integration(t *testing.T) {
	_ = godotenv.Load("../../.env")

	to := os.Getenv("TEST_RECEIVER_EMAIL")
	if to == "" {
		t.Skip("TEST_RECEIVER_EMAIL not set, skipping integration test")
	}

	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	m := NewSMTPMailer(os.Getenv("SMTP_HOST"), port, os.Getenv("SMTP_EMAIL"), os.Getenv("SMTP_PASSWORD"))

	if err := m.SendListingCreatedEmail(to, "Integration Test Car"); err != nil {
		t.Errorf("failed to send email: %v", err)
	}
}
