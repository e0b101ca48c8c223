package prompt_test

import (
	"strings"
	"testing"

	"github.com/randomtoy/raas-go/internal/domain"
	"github.com/randomtoy/raas-go/internal/ports"
	"github.com/randomtoy/raas-go/internal/prompt"
)

func testReader() domain.Reader {
	return domain.Reader{
		Alias:   "luna",
		Name:    "Luna",
		Tagline: "Moonlit guidance",
	}
}

func testDraw() domain.Draw {
	cards := []domain.Card{
		{ID: 1, Name: "The Fool", Meaning: "New beginnings.", Positive: "Optimism.", Negative: "Recklessness."},
		{ID: 2, Name: "The Magician", Meaning: "Manifestation.", Positive: "Willpower.", Negative: "Manipulation."},
		{ID: 3, Name: "The Star", Meaning: "Renewed hope.", Positive: "Faith.", Negative: "Despair."},
	}
	dc := make([]domain.DrawnCard, len(cards))
	for i, c := range cards {
		dc[i] = domain.DrawnCard{
			Card:     c,
			Position: i + 1,
			Label:    domain.SpreadThreeCard.PositionLabel(i + 1),
		}
	}
	return domain.Draw{Spread: domain.SpreadThreeCard, Cards: dc}
}

func TestBuild_MessageStructure(t *testing.T) {
	msgs := prompt.Build(testReader(), testDraw(), "What does my career hold?", nil)

	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != "system" {
		t.Errorf("first message role: expected system, got %s", msgs[0].Role)
	}
	if msgs[len(msgs)-1].Role != "user" {
		t.Errorf("last message role: expected user, got %s", msgs[len(msgs)-1].Role)
	}
	if !strings.Contains(msgs[0].Content, "Luna") {
		t.Error("system block does not name the reader")
	}
	if !strings.Contains(msgs[0].Content, "Moonlit guidance") {
		t.Error("system block does not include the tagline")
	}
	if !strings.Contains(msgs[1].Content, "What does my career hold?") {
		t.Error("user block does not include the question")
	}
}

func TestBuild_EveryCardOnceInDrawOrder(t *testing.T) {
	draw := testDraw()
	msgs := prompt.Build(testReader(), draw, "A question", nil)
	user := msgs[len(msgs)-1].Content

	lastIdx := -1
	for _, c := range draw.Cards {
		if n := strings.Count(user, c.Name); n != 1 {
			t.Errorf("card %q appears %d times, expected 1", c.Name, n)
		}
		idx := strings.Index(user, c.Name)
		if idx <= lastIdx {
			t.Errorf("card %q out of draw order", c.Name)
		}
		lastIdx = idx
	}
}

func TestBuild_PositionalLabels(t *testing.T) {
	msgs := prompt.Build(testReader(), testDraw(), "A question", nil)
	user := msgs[len(msgs)-1].Content

	for _, pair := range []string{"Past - The Fool", "Present - The Magician", "Future - The Star"} {
		if !strings.Contains(user, pair) {
			t.Errorf("user block missing positional pair %q", pair)
		}
	}
}

func TestBuild_HistoryBetweenSystemAndUser(t *testing.T) {
	history := []ports.Message{
		{Role: "user", Content: "Hello"},
		{Role: "assistant", Content: "Welcome, seeker."},
	}
	msgs := prompt.Build(testReader(), testDraw(), "And now?", history)

	if len(msgs) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(msgs))
	}
	if msgs[1].Content != "Hello" || msgs[2].Content != "Welcome, seeker." {
		t.Error("history turns not preserved in order")
	}
}

func TestBuild_EmptyDraw(t *testing.T) {
	msgs := prompt.Build(testReader(), domain.Draw{}, "Guide me", nil)

	if strings.Contains(msgs[0].Content, "STRICT RULES") {
		t.Error("card rules should not appear without a draw")
	}
	if !strings.Contains(msgs[len(msgs)-1].Content, "No cards were drawn") {
		t.Error("user block should state that no cards were drawn")
	}
}

func TestBuild_SystemInstructionsIncluded(t *testing.T) {
	r := testReader()
	r.SystemInstructions = "Always answer in rhyme."

	msgs := prompt.Build(r, testDraw(), "A question", nil)
	if !strings.Contains(msgs[0].Content, "Always answer in rhyme.") {
		t.Error("system block missing reader system instructions")
	}
}
