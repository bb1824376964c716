package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// PredictRequest represents a request to the prediction service
type PredictRequest struct {
	Description string `json:"description"`
}

// PredictResponse is the body of a prediction. All-models-failed answers
// share the shape and carry Error and Code as well.
type PredictResponse struct {
	Cluster       int                `json:"cluster"`
	ClusterName   string             `json:"cluster_name"`
	Description   string             `json:"description"`
	ModelUsed     string             `json:"model_used"`
	Confidence    float64            `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities,omitempty"`
	Warning       string             `json:"warning,omitempty"`
	Error         string             `json:"error,omitempty"`
	Code          string             `json:"code,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status           string   `json:"status"`
	ModelsLoaded     []string `json:"models_loaded"`
	VectorizerLoaded bool     `json:"vectorizer_loaded"`
}

// APIError is returned for any non-200 answer
type APIError struct {
	StatusCode int
	Code       string
	Message    string

	// Failure holds the decoded body of an all-models-failed answer
	Failure *PredictResponse
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("prediction service returned status %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("prediction service returned status %d: %s", e.StatusCode, e.Message)
}

// PredictClient is an HTTP client for the prediction service
type PredictClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewPredictClient creates a new prediction service client
func NewPredictClient(baseURL string, timeout time.Duration) *PredictClient {
	return &PredictClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Predict sends a description for ensemble classification
func (c *PredictClient) Predict(ctx context.Context, description, requestID string) (*PredictResponse, error) {
	body, err := json.Marshal(PredictRequest{Description: description})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp.StatusCode, respBody)
	}

	var result PredictResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// Health checks the prediction service health
func (c *PredictClient) Health(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("prediction service returned status %d", resp.StatusCode)
	}

	var result HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// Ready checks if the prediction service can serve predictions
func (c *PredictClient) Ready(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ready", http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Reason string `json:"reason"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Reason != "" {
			return fmt.Errorf("prediction service not ready: %s", body.Reason)
		}
		return fmt.Errorf("prediction service not ready: status %d", resp.StatusCode)
	}

	return nil
}

func decodeError(status int, body []byte) error {
	apiErr := &APIError{StatusCode: status, Message: strings.TrimSpace(string(body))}

	var failure PredictResponse
	if err := json.Unmarshal(body, &failure); err != nil || failure.Error == "" {
		return apiErr
	}
	apiErr.Code = failure.Code
	apiErr.Message = failure.Error
	if failure.ModelUsed != "" {
		apiErr.Failure = &failure
	}
	return apiErr
}
