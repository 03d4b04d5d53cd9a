package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func createRoom(t *testing.T, ts *httptest.Server, code string) map[string]any {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/rooms", map[string]any{"code": code})
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		t.Fatalf("create room: unexpected status %d", resp.StatusCode)
	}
	return decodeBody(t, resp)
}

func joinPlayer(t *testing.T, ts *httptest.Server, roomID, name string) string {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/rooms/"+roomID+"/join", map[string]any{"name": name})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("join %s: expected status %d, got %d", name, http.StatusOK, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	playerID, ok := body["player_id"].(string)
	if !ok || playerID == "" {
		t.Fatalf("expected player_id in join response, got %v", body["player_id"])
	}
	return playerID
}

func fetchState(t *testing.T, ts *httptest.Server, roomID string) map[string]any {
	t.Helper()
	resp := doRequest(t, ts, http.MethodGet, "/api/rooms/"+roomID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	return decodeBody(t, resp)
}

func teacherAction(t *testing.T, ts *httptest.Server, roomID, action string, payload any) map[string]any {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/rooms/"+roomID+"/teacher/"+action, payload)
	body := decodeBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("teacher %s: expected status %d, got %d (%v)", action, http.StatusOK, resp.StatusCode, body)
	}
	return body
}

func playerAction(t *testing.T, ts *httptest.Server, roomID, playerID, action string, payload any) *http.Response {
	t.Helper()
	return doRequest(t, ts, http.MethodPost, "/api/rooms/"+roomID+"/players/"+playerID+"/"+action, payload)
}

func doRequest(t *testing.T, ts *httptest.Server, method, path string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(data)
}

func expectError(t *testing.T, resp *http.Response, status int, code string) {
	t.Helper()
	body := decodeBody(t, resp)
	if resp.StatusCode != status {
		t.Fatalf("expected status %d, got %d (%v)", status, resp.StatusCode, body)
	}
	if body["code"] != code {
		t.Fatalf("expected code %q, got %v", code, body["code"])
	}
}

func findPlayer(t *testing.T, state map[string]any, playerID string) map[string]any {
	t.Helper()
	players, _ := state["players"].([]any)
	for _, raw := range players {
		player, _ := raw.(map[string]any)
		if player["id"] == playerID {
			return player
		}
	}
	t.Fatalf("player %s not found", playerID)
	return nil
}

func scoreOf(t *testing.T, state map[string]any, playerID string) int {
	t.Helper()
	score, ok := findPlayer(t, state, playerID)["score"].(float64)
	if !ok {
		t.Fatalf("expected numeric score")
	}
	return int(score)
}

func activeQuestion(t *testing.T, state map[string]any) map[string]any {
	t.Helper()
	question, ok := state["active_question"].(map[string]any)
	if !ok {
		t.Fatalf("expected active question, got %v", state["active_question"])
	}
	return question
}

func waitForState(t *testing.T, ts *httptest.Server, roomID string, timeout time.Duration, done func(map[string]any) bool) map[string]any {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		state := fetchState(t, ts, roomID)
		if done(state) {
			return state
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for state, last %v", state)
		}
		time.Sleep(20 * time.Millisecond)
	}
}
