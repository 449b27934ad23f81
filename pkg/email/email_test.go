package email

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLayoutEscapesName(t *testing.T) {
	msg := passwordChangedMessage(`<script>alert(1)</script>`, "https://app.example")

	if strings.Contains(msg.html, "<script>") {
		t.Fatal("name was not escaped")
	}
	if !strings.Contains(msg.html, "&lt;script&gt;") {
		t.Fatal("escaped name missing from body")
	}
	if !strings.Contains(msg.html, `href="https://app.example"`) {
		t.Fatal("app link missing")
	}
}

func TestLogSenderNeverFails(t *testing.T) {
	n := NewLogSender(zerolog.Nop())
	ctx := context.Background()

	if err := n.SendPasswordChanged(ctx, "ada@example.com", "Ada"); err != nil {
		t.Fatalf("SendPasswordChanged() error = %v", err)
	}
	if err := n.SendSignedOutEverywhere(ctx, "ada@example.com", "Ada"); err != nil {
		t.Fatalf("SendSignedOutEverywhere() error = %v", err)
	}
}
