package chat_test

import (
	"context"
	"errors"
	"testing"

	model "github.com/hiwalabs/hiwa/backend/internal/model/chat"
	chat "github.com/hiwalabs/hiwa/backend/internal/service/chat"
)

func TestServiceCreateAndGetSession(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "TOMOSHIBI", "#191970", "night")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	got, err := svc.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession err: %v", err)
	}

	if got.ID != session.ID {
		t.Fatalf("unexpected session ID: got %s want %s", got.ID, session.ID)
	}
	if got.ModeID != "TOMOSHIBI" || got.WeatherID != "night" {
		t.Fatalf("selection not retained: mode=%s weather=%s", got.ModeID, got.WeatherID)
	}
	if got.Vector.Hibiki.FAS == 0 {
		t.Fatal("session must carry the derived vector")
	}
}

func TestServiceCreateSessionValidation(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	if _, err := svc.CreateSession(ctx, "", "#191970", "night"); !errors.Is(err, chat.ErrModeRequired) {
		t.Errorf("missing mode: got %v", err)
	}
	if _, err := svc.CreateSession(ctx, "TOMOSHIBI", "", "night"); !errors.Is(err, chat.ErrColorRequired) {
		t.Errorf("missing color: got %v", err)
	}
}

func TestServiceUnknownIDsFallBackToDefaults(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "NO_SUCH_MODE", "#808080", "no-such-weather")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}
	if session.ModeID == "NO_SUCH_MODE" {
		t.Error("unknown mode must resolve to a catalog default")
	}
	if session.WeatherID == "no-such-weather" {
		t.Error("unknown weather must resolve to a catalog default")
	}
}

func TestServiceGetSessionNotFound(t *testing.T) {
	svc := chat.NewService()

	if _, err := svc.GetSession(context.Background(), "missing"); !errors.Is(err, chat.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestServiceTurnSerialization(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, _ := svc.CreateSession(ctx, "RAIMEI", "#DC143C", "sunny")

	if err := svc.BeginTurn(ctx, session.ID); err != nil {
		t.Fatalf("BeginTurn: %v", err)
	}
	if err := svc.BeginTurn(ctx, session.ID); !errors.Is(err, chat.ErrTurnInFlight) {
		t.Fatalf("second BeginTurn: got %v, want ErrTurnInFlight", err)
	}

	svc.EndTurn(ctx, session.ID)
	if err := svc.BeginTurn(ctx, session.ID); err != nil {
		t.Fatalf("BeginTurn after EndTurn: %v", err)
	}
}

func TestServiceTranscriptAndAmbientColor(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, _ := svc.CreateSession(ctx, "TOMOSHIBI", "#191970", "night")

	msgs := []model.Message{
		{SessionID: session.ID, Sender: "user", Content: "疲れた"},
		{SessionID: session.ID, Sender: "ai", Content: "……疲れた、のですね。", Tone: "重い"},
	}
	for _, m := range msgs {
		if err := svc.SaveMessage(ctx, m); err != nil {
			t.Fatalf("SaveMessage: %v", err)
		}
	}

	if err := svc.UpdateAmbientColor(ctx, session.ID, "#2d3748"); err != nil {
		t.Fatalf("UpdateAmbientColor: %v", err)
	}
	if err := svc.UpdateAmbientColor(ctx, session.ID, ""); err != nil {
		t.Fatalf("empty ambient update must be a no-op: %v", err)
	}

	got, err := svc.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.AmbientColorHex != "#2d3748" {
		t.Errorf("ambient color: got %q", got.AmbientColorHex)
	}

	transcript, err := svc.LoadTranscript(ctx, session.ID)
	if err != nil {
		t.Fatalf("LoadTranscript: %v", err)
	}
	if len(transcript) != 2 {
		t.Fatalf("transcript length: got %d", len(transcript))
	}
	if transcript[0].ID == "" || transcript[0].CreatedAt.IsZero() {
		t.Error("saved messages must receive an id and timestamp")
	}
	if transcript[1].Tone != "重い" {
		t.Errorf("tone not retained: %q", transcript[1].Tone)
	}
}

func TestServiceCloseSessionFlattensHistory(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, _ := svc.CreateSession(ctx, "TOMOSHIBI", "#191970", "night")
	svc.SaveMessage(ctx, model.Message{SessionID: session.ID, Sender: "user", Content: "疲れた"})
	svc.SaveMessage(ctx, model.Message{SessionID: session.ID, Sender: "ai", Content: "……疲れた、のですね。"})
	svc.SaveMessage(ctx, model.Message{SessionID: session.ID, Sender: "user", Content: "眠れない"})
	svc.UpdateAmbientColor(ctx, session.ID, "#2d3748")

	entry, err := svc.CloseSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("CloseSession: %v", err)
	}

	if entry.ID != session.ID {
		t.Errorf("entry id: got %s", entry.ID)
	}
	if entry.MessageCount != 3 {
		t.Errorf("message count: got %d", entry.MessageCount)
	}
	if entry.FirstUserMessage != "疲れた" || entry.FirstAIResponse != "……疲れた、のですね。" {
		t.Errorf("first exchange snapshot wrong: %q / %q", entry.FirstUserMessage, entry.FirstAIResponse)
	}
	if entry.AmbientColorHex != "#2d3748" {
		t.Errorf("ambient color: got %q", entry.AmbientColorHex)
	}
	if entry.SilenceCoeff != session.Vector.SilenceCoeff || !entry.AdviceBan {
		t.Error("vector coefficients must flatten into the entry")
	}

	if _, err := svc.GetSession(ctx, session.ID); !errors.Is(err, chat.ErrSessionNotFound) {
		t.Error("closed session must be gone")
	}
	if _, err := svc.CloseSession(ctx, session.ID); !errors.Is(err, chat.ErrSessionNotFound) {
		t.Error("double close must report not found")
	}
}
