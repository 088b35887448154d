package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"alertautec-backend/internal/logger"
)

// TopicPublisher sends emails through the mailing-topic publish
// endpoint. Every confirmed subscriber of the topic receives the
// message; the publisher itself never knows the recipient list.
type TopicPublisher struct {
	endpoint   string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewTopicPublisher creates an email publisher for the given endpoint
func NewTopicPublisher(endpoint string, log *logger.Logger) *TopicPublisher {
	return &TopicPublisher{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     log,
	}
}

type publishRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Publish posts one email to the topic
func (p *TopicPublisher) Publish(subject, message string) error {
	payload, err := json.Marshal(publishRequest{Subject: subject, Message: message})
	if err != nil {
		return fmt.Errorf("failed to marshal publish request: %w", err)
	}

	resp, err := p.httpClient.Post(p.endpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to call email topic: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("email topic returned status %d", resp.StatusCode)
	}

	p.logger.WithField("subject", subject).Debug("Published email to topic")
	return nil
}
