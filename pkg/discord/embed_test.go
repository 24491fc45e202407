package discord

import (
	"testing"
	"time"
)

func TestBuildAccountCreatedEmbed(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	e := BuildAccountCreatedEmbed(AccountEmbed{
		Title:     "New account",
		Email:     "ann@example.com",
		FullName:  "Ann",
		Superuser: true,
		CreatedAt: created,
	})
	if e.Title != "New account" || e.Color != embedColor {
		t.Fatalf("unexpected embed header %+v", e)
	}
	if len(e.Fields) != 3 || e.Fields[0].Value != "ann@example.com" || e.Fields[2].Value != "superuser" {
		t.Fatalf("unexpected fields %+v", e.Fields)
	}
	if e.Timestamp != "2025-03-01T12:30:00Z" {
		t.Fatalf("timestamp = %q", e.Timestamp)
	}
	if e.Footer == nil || e.Footer.Text != "Created 01/03/2025 12:30 UTC" {
		t.Fatalf("footer = %+v", e.Footer)
	}

	bare := BuildAccountCreatedEmbed(AccountEmbed{Email: "b@example.com"})
	if len(bare.Fields) != 1 || bare.Footer != nil || bare.Timestamp != "" {
		t.Fatalf("optional parts should be omitted: %+v", bare)
	}
}

func TestFormatDateTime(t *testing.T) {
	at := time.Date(2025, 7, 14, 20, 0, 0, 0, time.UTC)
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	if got := FormatDateTime(at, paris); got != "14/07/2025 22:00 CEST" {
		t.Fatalf("FormatDateTime = %q", got)
	}
	if got := FormatDateTime(time.Time{}, paris); got != "" {
		t.Fatalf("zero time = %q", got)
	}
}
