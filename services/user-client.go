package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/nicunursekatie/sandwichsync-sub004/logging"
)

// UserDirectoryClient resolves volunteer display names from the users
// service. Lookups go through a circuit breaker; when the directory is
// down the caller falls back to the names stored on the task itself.
type UserDirectoryClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

func NewUserDirectoryClient(baseURL string, httpClient *http.Client, breaker *gobreaker.CircuitBreaker) *UserDirectoryClient {
	return &UserDirectoryClient{baseURL: baseURL, httpClient: httpClient, breaker: breaker}
}

type directoryUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// ResolveNames returns a userID -> display name map for the given ids.
// Missing users are simply absent from the map; transport or breaker
// failures return an error and the caller decides on a fallback.
func (c *UserDirectoryClient) ResolveNames(ctx context.Context, userIDs []string) (map[string]string, error) {
	if len(userIDs) == 0 {
		return map[string]string{}, nil
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		payload, err := json.Marshal(map[string][]string{"ids": userIDs})
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/users/lookup", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("users service returned status %d", resp.StatusCode)
		}

		var users []directoryUser
		if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
			return nil, fmt.Errorf("failed to decode users response: %w", err)
		}
		return users, nil
	})
	if err != nil {
		logging.Logger.Warnf("Event ID: USER_LOOKUP_FAILED, Description: Display name lookup failed, falling back to stored names: %v", err)
		return nil, err
	}

	names := make(map[string]string)
	for _, u := range result.([]directoryUser) {
		names[u.ID] = u.DisplayName
	}
	return names, nil
}
