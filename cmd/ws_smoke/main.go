package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"task_deadlines/internal/domain"
	"task_deadlines/internal/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Runs the ownership scenario against running services: A creates a task and
// a deadline and sees the live event, B is denied, A still reads the
// original value.
func main() {
	logger.Init("ws_smoke", "info", false)

	users := env("USER_SERVICE_URL", "http://localhost:4000")
	tasks := env("TASK_SERVICE_URL", "http://localhost:5000")
	deadlines := env("DEADLINE_SERVICE_URL", "http://localhost:6001")

	suffix := uuid.NewString()[:8]
	tokenA := signupLogin(users, "smokeA-"+suffix)
	tokenB := signupLogin(users, "smokeB-"+suffix)

	var task domain.Task
	mustCall(http.MethodPost, tasks+"/tasks", tokenA, map[string]any{"description": "buy milk"}, http.StatusCreated, &task)
	logger.Info("task created", "task_id", task.ID)

	wsURL := "ws" + strings.TrimPrefix(deadlines, "http") + "/deadlines/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Authorization": {"Bearer " + tokenA}})
	if err != nil {
		logger.Fatal("ws dial", "error", err)
	}
	defer conn.Close()

	path := fmt.Sprintf("%s/deadlines/%d", deadlines, task.ID)
	mustCall(http.MethodPost, deadlines+"/deadlines", tokenA, map[string]any{"taskId": task.ID, "deadline": "2024-01-01"}, http.StatusCreated, nil)

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var ev domain.DeadlineEvent
	if err := conn.ReadJSON(&ev); err != nil {
		logger.Fatal("no deadline event", "error", err)
	}
	if ev.Type != domain.DeadlineCreated || ev.Deadline.TaskID != task.ID {
		logger.Fatal("unexpected event", "type", ev.Type, "task_id", ev.Deadline.TaskID)
	}
	logger.Info("event received", "type", ev.Type)

	mustCall(http.MethodPut, path, tokenB, map[string]any{"deadline": "2099-01-01"}, http.StatusForbidden, nil)
	logger.Info("foreign update denied")

	var got domain.Deadline
	mustCall(http.MethodGet, path, tokenA, nil, http.StatusOK, &got)
	if got.Deadline != "2024-01-01" {
		logger.Fatal("deadline changed by another user", "deadline", got.Deadline)
	}

	logger.Info("smoke passed")
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return strings.TrimRight(v, "/")
	}
	return def
}

func signupLogin(base, username string) string {
	creds := map[string]any{"username": username, "password": "smoke-password"}
	mustCall(http.MethodPost, base+"/signup", "", creds, http.StatusCreated, nil)

	var out struct {
		Token string `json:"token"`
	}
	mustCall(http.MethodPost, base+"/login", "", creds, http.StatusOK, &out)
	return out.Token
}

func mustCall(method, url, token string, body any, want int, out any) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			logger.Fatal("encode body", "error", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		logger.Fatal("build request", "error", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		logger.Fatal("request failed", "method", method, "url", url, "error", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		logger.Fatal("unexpected status", "method", method, "url", url, "got", resp.StatusCode, "want", want)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			logger.Fatal("decode response", "error", err)
		}
	}
}
