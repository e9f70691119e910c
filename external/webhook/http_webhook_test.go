package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hazelweave/quizbot/internal/webhook"
)

func TestSendGameResult_EmptyWebhookURL(t *testing.T) {
	sender := NewHTTPSender("")
	if err := sender.SendGameResult(context.Background(), webhook.GameResult{GameID: "g"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestSendGameResult_Success(t *testing.T) {
	var got webhook.GameResult

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type: %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := NewHTTPSender(server.URL)
	result := webhook.GameResult{
		GameID:       "game-1",
		GuildID:      1,
		ChannelID:    100,
		Questions:    10,
		Quickfire:    true,
		DurationSecs: 120,
		Scores:       []webhook.ResultEntry{{UserID: 7, Score: 12}},
	}
	if err := sender.SendGameResult(context.Background(), result); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got.GameID != "game-1" || got.ChannelID != 100 || len(got.Scores) != 1 || got.Scores[0].Score != 12 {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestSendGameResult_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	sender := NewHTTPSender(server.URL)
	if err := sender.SendGameResult(context.Background(), webhook.GameResult{GameID: "g"}); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
