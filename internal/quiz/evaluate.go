package quiz

import "geoquiz-service/internal/domain"

// Evaluate compares the player's answer with the correct one.
func Evaluate(userAnswer, correctAnswer bool) domain.Verdict {
	if userAnswer == correctAnswer {
		return domain.VerdictCorrect
	}
	return domain.VerdictIncorrect
}
