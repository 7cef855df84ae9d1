package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// RunFailoverSmoke drives one running pool through the full chaos drill and
// verifies each step from the outside: healthy baseline, error mode failing
// the gated route while liveness stays green, timeout mode answering
// nothing at all, then clean recovery.
//
// hangProbe is how long to wait for proof that timeout mode is not
// answering; it assumes CHAOS_MAX_HANG is unset or longer than the probe.
func RunFailoverSmoke(baseURL string, hangProbe time.Duration) error {
	client := &http.Client{Timeout: 5 * time.Second}

	steps := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"baseline healthz", http.MethodGet, "/healthz", http.StatusOK},
		{"baseline version", http.MethodGet, "/version", http.StatusOK},
		{"enable error mode", http.MethodPost, "/chaos/start?mode=error", http.StatusOK},
		{"version under error mode", http.MethodGet, "/version", http.StatusInternalServerError},
		{"healthz under error mode", http.MethodGet, "/healthz", http.StatusOK},
		{"switch to timeout mode", http.MethodPost, "/chaos/start?mode=timeout", http.StatusOK},
	}
	for _, step := range steps {
		if err := expectStatus(client, step.method, baseURL+step.path, step.want); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
		fmt.Printf("ok: %s\n", step.name)
	}

	if err := expectHang(baseURL+"/version", hangProbe); err != nil {
		return fmt.Errorf("version under timeout mode: %w", err)
	}
	fmt.Println("ok: version under timeout mode hangs")

	if err := expectStatus(client, http.MethodGet, baseURL+"/healthz", http.StatusOK); err != nil {
		return fmt.Errorf("healthz under timeout mode: %w", err)
	}
	fmt.Println("ok: healthz under timeout mode")

	wasEnabled, err := stopChaos(client, baseURL)
	if err != nil {
		return fmt.Errorf("disable chaos: %w", err)
	}
	if !wasEnabled {
		return errors.New("disable chaos: expected wasEnabled=true")
	}
	fmt.Println("ok: chaos disabled")

	if err := expectStatus(client, http.MethodGet, baseURL+"/version", http.StatusOK); err != nil {
		return fmt.Errorf("version after recovery: %w", err)
	}
	fmt.Println("ok: version after recovery")

	return nil
}

func expectStatus(client *http.Client, method, url string, want int) error {
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != want {
		return fmt.Errorf("%s %s: expected status %d, got %d", method, url, want, resp.StatusCode)
	}
	return nil
}

// expectHang succeeds only when the request is still unanswered once the
// probe window closes. A dedicated transport keeps the aborted attempt
// from being retried on a pooled connection.
func expectHang(url string, probe time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), probe)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	client := &http.Client{Transport: &http.Transport{}}
	resp, err := client.Do(req)
	if err == nil {
		resp.Body.Close()
		return fmt.Errorf("expected no response, got status %d", resp.StatusCode)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("expected the probe deadline to expire, got: %w", err)
	}
	return nil
}

func stopChaos(client *http.Client, baseURL string) (bool, error) {
	resp, err := client.Post(baseURL+"/chaos/stop", "application/json", nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	var body struct {
		Message    string `json:"message"`
		WasEnabled bool   `json:"wasEnabled"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return body.WasEnabled, nil
}
