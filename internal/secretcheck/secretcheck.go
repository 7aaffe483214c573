// Package secretcheck lets the services confirm at startup that they were
// configured with the same token secret, by comparing HMAC fingerprints.
package secretcheck

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"task_deadlines/internal/logger"

	"github.com/gin-gonic/gin"
)

const Path = "/internal/secret-fingerprint"

// ErrMismatch means a peer is running with a different secret.
var ErrMismatch = errors.New("jwt secret fingerprint mismatch")

type response struct {
	Fingerprint string `json:"fingerprint"`
}

// Handler serves the local fingerprint.
func Handler(fingerprint string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, response{Fingerprint: fingerprint})
	}
}

type Checker struct {
	client   *http.Client
	interval time.Duration
}

func NewChecker(timeout time.Duration) *Checker {
	return &Checker{
		client:   &http.Client{Timeout: timeout},
		interval: time.Second,
	}
}

// VerifyPeers compares local against every peer base URL. Unreachable peers
// are retried until wait elapses; a mismatch fails at once.
func (ch *Checker) VerifyPeers(ctx context.Context, local string, peers []string, wait time.Duration) error {
	if len(peers) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	for _, peer := range peers {
		if err := ch.verifyPeer(ctx, local, peer); err != nil {
			return err
		}
		logger.Info("peer secret verified", "peer", peer)
	}
	return nil
}

func (ch *Checker) verifyPeer(ctx context.Context, local, peer string) error {
	var lastErr error
	for {
		remote, err := ch.fetch(ctx, peer)
		if err == nil {
			if subtle.ConstantTimeCompare([]byte(remote), []byte(local)) != 1 {
				return fmt.Errorf("%w: peer %s", ErrMismatch, peer)
			}
			return nil
		}
		lastErr = err
		logger.Debug("peer not ready", "peer", peer, "error", err)

		select {
		case <-ctx.Done():
			return fmt.Errorf("peer %s unreachable: %w", peer, lastErr)
		case <-time.After(ch.interval):
		}
	}
}

func (ch *Checker) fetch(ctx context.Context, peer string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(peer, "/")+Path, nil)
	if err != nil {
		return "", err
	}
	resp, err := ch.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}
	var body response
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body); err != nil {
		return "", err
	}
	if body.Fingerprint == "" {
		return "", errors.New("empty fingerprint")
	}
	return body.Fingerprint, nil
}
