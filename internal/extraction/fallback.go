package extraction

import "github.com/neboloop/mindsort/internal/model"

// FallbackTitleRunes is how much of the input the fallback title keeps.
const FallbackTitleRunes = 50

// FallbackSuggestions are attached whenever the fallback path is taken.
var FallbackSuggestions = []string{
	"Take a deep breath and remember that it's okay to feel overwhelmed",
	"Consider breaking down your tasks into smaller, manageable steps",
	"Don't forget to take care of your basic needs - rest, food, and hydration",
}

// Fallback builds the single-task result used when extraction fails.
// Distress is always assumed.
func Fallback(input string) Result {
	desc := input
	suggestions := make([]string, len(FallbackSuggestions))
	copy(suggestions, FallbackSuggestions)

	return Result{
		Tasks: []Item{{
			Title:       fallbackTitle(input),
			Description: &desc,
			Category:    model.CategoryEmotions,
			Priority:    model.PriorityImportant,
		}},
		DistressDetected: true,
		Suggestions:      suggestions,
		Fallback:         true,
	}
}

func fallbackTitle(input string) string {
	runes := []rune(input)
	if len(runes) <= FallbackTitleRunes {
		return input
	}
	return string(runes[:FallbackTitleRunes]) + "..."
}
