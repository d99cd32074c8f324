// Package chatsvc relays visitor questions to the external conversational-AI
// endpoint backing the site's chat widget.
package chatsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/joinquran/backend/core"
)

// ErrNotConfigured is returned when no upstream endpoint is set.
var ErrNotConfigured = errors.New("chat endpoint not configured")

type (
	chatRequest struct {
		Input string `json:"input"`
	}

	chatResponse struct {
		OutputText string `json:"output_text"`
	}

	Service struct {
		baseURL string
		apiKey  string
		client  *http.Client
	}
)

func NewService(conf *core.Config) *Service {
	return &Service{
		baseURL: conf.ChatApiBaseURL,
		apiKey:  conf.ChatApiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Reply sends the visitor's message upstream and returns the bot's answer.
func (svc *Service) Reply(ctx context.Context, message string) (string, error) {
	if svc.baseURL == "" {
		return "", ErrNotConfigured
	}

	payload, err := json.Marshal(chatRequest{Input: message})
	if err != nil {
		return "", errors.Wrap(err, "encoding chat request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "building chat request")
	}
	req.Header.Set("Content-Type", "application/json")
	if svc.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+svc.apiKey)
	}

	res, err := svc.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "calling chat endpoint")
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return "", errors.Errorf("chat upstream returned %d", res.StatusCode)
	}

	var body chatResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", errors.Wrap(err, "decoding chat response")
	}
	return strings.TrimSpace(body.OutputText), nil
}
