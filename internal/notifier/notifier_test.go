package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/khoon485/toss-stock/internal/model"
)

func TestFormatBatchSummary(t *testing.T) {
	r := &model.Report{
		Market: &model.MarketSnapshot{
			VIX: 24.5, HasVIX: true,
			Sentiment: model.Fear, SentimentDesc: "공포 - 저가 매수 기회 관심",
			SPY: 512.3, SPYChange: -1.2, HasSPY: true,
		},
		Holdings: []*model.Analysis{
			{
				Symbol:         "AAPL",
				CurrentPrice:   189.5,
				Score:          3.5,
				Recommendation: model.Buy,
			},
			{
				Symbol:         "TQQQ",
				CurrentPrice:   52.1,
				LeveragedPrice: 61.2,
				Score:          -2.0,
				Recommendation: model.Sell,
				BitgakWarning:  "⚠️ 빗각 경고: 추격매수 구간 (CSI +7.2%)",
			},
			{Symbol: "NVDA", Error: "조회 실패"},
		},
	}

	out := FormatBatchSummary(r)
	for _, want := range []string{
		"<b>포트폴리오 분석</b>",
		"VIX 24.5 🔴 (공포 - 저가 매수 기회 관심)",
		"SPY $512.3 (-1.2%)",
		"🟢 AAPL",
		"BUY (점수: 3.5)",
		"⚠️ 빗각 경고: 추격매수 구간 (CSI +7.2%)",
		"⚠️ NVDA   | 분석 실패: 조회 실패",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	// leveraged holdings show the leveraged quote, not the underlying
	if !strings.Contains(out, "61.2") || strings.Contains(out, "52.1") {
		t.Errorf("expected leveraged price 61.2 only:\n%s", out)
	}
}

func TestSend_PostsToChat(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/sendMessage") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := &TelegramNotifier{BotToken: "token", ChatID: "42", Client: srv.Client(), apiBase: srv.URL}
	if err := n.Send("hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got["chat_id"] != "42" || got["text"] != "hello" || got["parse_mode"] != "HTML" {
		t.Errorf("unexpected payload: %+v", got)
	}
}

func TestSend_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	n := &TelegramNotifier{BotToken: "token", ChatID: "42", Client: srv.Client(), apiBase: srv.URL}
	err := n.Send("hello")
	if err == nil || !strings.Contains(err.Error(), "status 400") {
		t.Errorf("expected status 400 error, got %v", err)
	}
}

func TestStartPolling_DispatchesCommand(t *testing.T) {
	replies := make(chan string, 1)
	served := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			if served {
				w.Write([]byte(`{"ok":true,"result":[]}`))
				return
			}
			served = true
			w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"text":" 분석 "}}]}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var payload map[string]string
			json.NewDecoder(r.Body).Decode(&payload)
			replies <- payload["text"]
			w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	n := &TelegramNotifier{BotToken: "token", ChatID: "42", Client: srv.Client(), apiBase: srv.URL}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		n.StartPolling(ctx, func(cmd string) string {
			if cmd != "분석" {
				t.Errorf("expected trimmed command, got %q", cmd)
			}
			return "분석 시작"
		})
		close(done)
	}()

	if reply := <-replies; reply != "분석 시작" {
		t.Errorf("unexpected reply %q", reply)
	}
	cancel()
	<-done
}

func TestDispatch_IgnoresEmptyMessages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer srv.Close()

	n := &TelegramNotifier{BotToken: "token", ChatID: "42", Client: srv.Client(), apiBase: srv.URL}
	called := false
	n.dispatch(telegramUpdate{UpdateID: 1}, func(string) string {
		called = true
		return "reply"
	})
	if called {
		t.Error("handler should not run without a message")
	}
}
