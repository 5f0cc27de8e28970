package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/devpatel-io/taskflow/internal/utils"
)

// GenerateState builds an OAuth state string: a random nonce joined with a
// base64 JSON payload carrying flow metadata.
func GenerateState(data map[string]string) (string, error) {
	nonce, err := utils.GenerateSecureToken(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate state nonce: %w", err)
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal state data: %w", err)
	}

	return nonce + "." + base64.RawURLEncoding.EncodeToString(payload), nil
}

// DecodeState recovers the metadata embedded by GenerateState.
func DecodeState(state string) (map[string]string, error) {
	_, encoded, found := strings.Cut(state, ".")
	if !found {
		return nil, fmt.Errorf("invalid state format")
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode state payload: %w", err)
	}

	var data map[string]string
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state JSON: %w", err)
	}
	return data, nil
}
