package queue

import (
	"strings"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	msg := DecisionNotification{
		ClaimID:       "claim-1",
		DecisionID:    "dec-1",
		CustomerEmail: "dana@example.com",
		Decision:      "approved",
		EmailDraft:    "Dear Dana, your return was approved.",
		Language:      "en",
	}
	body, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeMessage(string(body))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != msg {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestDecodeRejectsUnrecoverableBodies(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", "{{"},
		{"missing claim id", `{"decisionId":"dec-1","decision":"approved"}`},
		{"missing decision id", `{"claimId":"claim-1","decision":"approved"}`},
		{"blank ids", `{"claimId":"  ","decisionId":"  "}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeMessage(tc.body); err == nil {
				t.Fatalf("expected error for body %s", tc.body)
			}
		})
	}
}

func TestDecodeIgnoresUnknownFields(t *testing.T) {
	body := `{"claimId":"claim-1","decisionId":"dec-1","extra":"ignored"}`
	msg, err := DecodeMessage(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.ClaimID != "claim-1" || !strings.EqualFold(msg.DecisionID, "dec-1") {
		t.Fatalf("unexpected message: %+v", msg)
	}
}
