package openai

import "testing"

func TestNewReviewOpenAIClient_RequiresKey(t *testing.T) {
	_, err := NewReviewOpenAIClient(NewReviewOpenAIClientParams{
		ExtractionModel: "gpt-4o-mini",
	})
	if err == nil {
		t.Fatal("expected an error for a missing API key")
	}
}

func TestNewReviewOpenAIClient_BuildsChatClient(t *testing.T) {
	client, err := NewReviewOpenAIClient(NewReviewOpenAIClientParams{
		ExtractionModel: "gpt-4o-mini",
		ChatURL:         "http://localhost:11434/v1",
		ChatKey:         "test-key",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.ChatClient == nil {
		t.Fatal("expected a non-nil chat client")
	}
}
