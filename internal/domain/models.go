package domain

import "time"

// Question is a single true/false prompt.
type Question struct {
	Text   string `json:"text" yaml:"text"`
	Answer bool   `json:"answer" yaml:"answer"`
}

// Bank is the serialisable form of a question bank as stored by loaders.
type Bank struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title,omitempty" yaml:"title,omitempty"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// SessionState is the only state that outlives a shell: which bank a
// session is walking and where its cursor stands.
type SessionState struct {
	ID        string    `json:"id"`
	BankID    string    `json:"bankId"`
	Index     int       `json:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// View is what a shell renders for the current question.
type View struct {
	SessionID string `json:"sessionId"`
	BankID    string `json:"bankId"`
	Title     string `json:"title,omitempty"`
	Index     int    `json:"index"`
	Total     int    `json:"total"`
	Text      string `json:"text"`
}

// Outcome is the result of dispatching one event.
type Outcome struct {
	Event   Event    `json:"event"`
	View    View     `json:"view"`
	Verdict *Verdict `json:"verdict,omitempty"`
}
