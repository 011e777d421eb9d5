package quiz

import "geoquiz-service/internal/domain"

// GeographyBankID names the compiled-in default bank.
const GeographyBankID = "geography"

// GeographyBank is the default content used when no external source is configured.
func GeographyBank() domain.Bank {
	return domain.Bank{
		ID:    GeographyBankID,
		Title: "World geography",
		Questions: []domain.Question{
			{Text: "Canberra is the capital of Australia.", Answer: true},
			{Text: "The Pacific Ocean is larger than the Atlantic Ocean.", Answer: true},
			{Text: "The Suez Canal connects the Red Sea and the Indian Ocean.", Answer: false},
			{Text: "The source of the Nile River is in Egypt.", Answer: false},
			{Text: "The Amazon River is the longest river in the Americas.", Answer: true},
			{Text: "Lake Baikal is the world's oldest and deepest freshwater lake.", Answer: true},
		},
	}
}
