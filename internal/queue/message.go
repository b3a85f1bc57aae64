package queue

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EncodeMessage serializes a notification for the queue body.
func EncodeMessage(msg DecisionNotification) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a queue body into a notification. A missing claim or
// decision id makes the message unrecoverable.
func DecodeMessage(body string) (DecisionNotification, error) {
	var msg DecisionNotification
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		return DecisionNotification{}, fmt.Errorf("decode notification: %w", err)
	}
	if strings.TrimSpace(msg.ClaimID) == "" {
		return DecisionNotification{}, fmt.Errorf("notification missing claimId")
	}
	if strings.TrimSpace(msg.DecisionID) == "" {
		return DecisionNotification{}, fmt.Errorf("notification missing decisionId")
	}
	return msg, nil
}
