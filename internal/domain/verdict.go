package domain

import "encoding/json"

// Verdict is the outcome of comparing a submitted answer with the truth.
type Verdict int

const (
	VerdictIncorrect Verdict = iota
	VerdictCorrect
)

func (v Verdict) String() string {
	if v == VerdictCorrect {
		return "correct"
	}
	return "incorrect"
}

// Message is the text of the transient notification shown to the player.
func (v Verdict) Message() string {
	if v == VerdictCorrect {
		return "Correct!"
	}
	return "Incorrect!"
}

func (v Verdict) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}
