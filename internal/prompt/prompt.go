// Package prompt assembles the role-tagged message sequence sent to the
// chat-completion API: one system block establishing the persona and its
// constraints, any prior conversation turns, and one user block carrying
// the question and the exact cards drawn.
package prompt

import (
	"fmt"
	"strings"

	"github.com/randomtoy/raas-go/internal/domain"
	"github.com/randomtoy/raas-go/internal/ports"
)

// Build produces the message sequence for one reading. Every card in the
// draw appears exactly once, in draw order; no other card is mentioned.
func Build(reader domain.Reader, draw domain.Draw, question string, history []ports.Message) []ports.Message {
	msgs := make([]ports.Message, 0, len(history)+2)
	msgs = append(msgs, ports.Message{Role: "system", Content: systemBlock(reader, draw)})
	msgs = append(msgs, history...)
	msgs = append(msgs, ports.Message{Role: "user", Content: userBlock(draw, question)})
	return msgs
}

func systemBlock(reader domain.Reader, draw domain.Draw) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s, a tarot reader with the style: %q.\n", reader.Name, reader.Tagline)
	if reader.Persona != "" {
		fmt.Fprintf(&b, "%s\n", reader.Persona)
	}
	b.WriteString("Speak warmly and mystically but stay concise and insightful.\n")

	if reader.SystemInstructions != "" {
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(reader.SystemInstructions))
		b.WriteString("\n")
	}

	if len(draw.Cards) > 0 {
		fmt.Fprintf(&b, "\nYou are performing a %s spread based on the exact cards drawn, which are provided to you.\n", spreadName(draw.Spread))
		b.WriteString(`
STRICT RULES:
- Never mention cards other than the ones provided.
- Never change the order of the cards.
- Never contradict the provided meaning, positive, or negative text.
- Blend each card's meaning with the querent's question.
- End with a brief closing message.
`)
	}

	return b.String()
}

func userBlock(draw domain.Draw, question string) string {
	var b strings.Builder

	if question != "" {
		fmt.Fprintf(&b, "The querent asked: %q\n", question)
	} else {
		b.WriteString("The querent asked no specific question.\n")
	}

	if len(draw.Cards) == 0 {
		b.WriteString("\nNo cards were drawn. Offer general guidance in your voice.")
		return b.String()
	}

	b.WriteString("\nHere are the exact cards drawn:\n")
	for _, c := range draw.Cards {
		fmt.Fprintf(&b, "\n%s - %s\n", c.Label, c.Name)
		if c.Meaning != "" {
			fmt.Fprintf(&b, "Meaning: %s\n", c.Meaning)
		}
		if c.Positive != "" {
			fmt.Fprintf(&b, "Positive influence: %s\n", c.Positive)
		}
		if c.Negative != "" {
			fmt.Fprintf(&b, "Challenging influence: %s\n", c.Negative)
		}
	}

	b.WriteString("\nInterpret each position in order and keep the reading smooth and cohesive.")
	return b.String()
}

func spreadName(s domain.SpreadType) string {
	switch s {
	case domain.SpreadThreeCard:
		return "three-card Past / Present / Future"
	case domain.SpreadTwoCard:
		return "two-card"
	default:
		return "single-card"
	}
}
