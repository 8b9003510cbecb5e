package httputil_test

import (
	"context"
	"fmt"
	"time"

	"github.com/gigapp/gig/backend/pkg/config"
	"github.com/gigapp/gig/backend/pkg/httputil"
	"github.com/gigapp/gig/backend/pkg/logger"
)

// Example_get shows a GET with the client's retry policy
func Example_get() {
	cfg := &config.Config{
		API: config.APIConfig{
			Timeout:    10 * time.Second,
			MaxRetries: 2,
		},
	}

	client := httputil.New(cfg, logger.Nop())

	resp, err := client.Get(context.Background(), "https://api.example.com/users/me", nil)
	if err != nil {
		fmt.Println("request failed:", err)
		return
	}
	defer resp.Body.Close()

	fmt.Println(resp.StatusCode)
}

// Example_patch shows a mutation; PATCH is never retried
func Example_patch() {
	cfg := &config.Config{API: config.APIConfig{Timeout: 10 * time.Second}}
	client := httputil.New(cfg, logger.Nop()).WithRetry(3, time.Second)

	body := map[string]bool{"accepted": true}
	resp, err := client.PatchJSON(context.Background(), "https://api.example.com/contract/42/respond", body, nil)
	if err != nil {
		fmt.Println("request failed:", err)
		return
	}
	defer resp.Body.Close()
}
