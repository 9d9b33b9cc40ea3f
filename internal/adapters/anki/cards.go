package anki

import (
	"fmt"
	"strings"
)

// Card is a formatted card ready for the training page
type Card struct {
	CardID   int64  `json:"cardId"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// CardTypeQuery is one Anki search term selecting a kind of card
type CardTypeQuery struct {
	Query       string
	Description string
}

// CardTypeQueries lists the card kinds offered for review
var CardTypeQueries = []CardTypeQuery{
	{Query: "is:new", Description: "New cards"},
	{Query: "is:learn", Description: "Learning cards"},
	{Query: "is:due", Description: "Review cards"},
}

// BuildDeckQuery returns the search selecting every reviewable card of deck
func BuildDeckQuery(deck string) string {
	terms := make([]string, 0, len(CardTypeQueries))
	for _, q := range CardTypeQueries {
		terms = append(terms, q.Query)
	}
	deck = strings.ReplaceAll(deck, `"`, `\"`)
	return fmt.Sprintf(`deck:"%s" (%s)`, deck, strings.Join(terms, " or "))
}
