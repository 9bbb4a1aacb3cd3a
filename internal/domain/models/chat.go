package models

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry of a session's history.
type ChatMessage struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatSession owns an append-only history. Sessions never share state.
type ChatSession struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	History   []ChatMessage `json:"history"`
}

// Answer is a reply plus the name of the rule that produced it.
type Answer struct {
	Rule string
	Text string
}

// ChatReply is returned after one user turn.
type ChatReply struct {
	SessionID string        `json:"session_id"`
	Rule      string        `json:"rule"`
	Reply     ChatMessage   `json:"reply"`
	History   []ChatMessage `json:"history"`
}

// ChatGreeting seeds every new session.
const ChatGreeting = "Hi! 👋 I can help you explore the dataset.  \n" +
	"Here are the things you can ask me:\n\n" +
	"- 💰 **Total spend** (sum of all amounts)  \n" +
	"- 📊 **Transaction count** (how many transactions)  \n" +
	"- 🏪 **Top merchants by spend** (e.g., top 5 or top 10)  \n" +
	"- 📂 **Top categories by spend** (e.g., top 5 or top 10)  \n" +
	"- 💳 **Payment mix** (distribution of payment methods)  \n" +
	"- ⚠️ **Outlier summary** (transactions above IQR threshold)  \n" +
	"- 🗓 **Date range** (earliest to latest transaction date)  \n\n" +
	"Try typing one of these questions, like *“What's the total spend?”* or *“Show me top 10 merchants”*."
