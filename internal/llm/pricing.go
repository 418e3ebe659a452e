package llm

import "strings"

// price is USD per million tokens.
type price struct {
	input, output float64
}

// prices covers the models the config can select. Providers report dated
// IDs such as "gpt-4o-mini-2024-07-18", which match their base entry.
var prices = map[string]price{
	"claude-haiku-4-5":  {1, 5},
	"claude-sonnet-4-5": {3, 15},
	"claude-sonnet-4":   {3, 15},

	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},

	"gemini-2.0-flash": {0.1, 0.4},
	"gemini-2.5-flash": {0.3, 2.5},
	"gemini-2.5-pro":   {1.25, 10},
}

// EstimateCost prices usage for model. OpenRouter's "vendor/model" IDs are
// priced as the bare model. It reports false for models not in the table.
func EstimateCost(model string, u Usage) (float64, bool) {
	if i := strings.LastIndexByte(model, '/'); i >= 0 {
		model = model[i+1:]
	}
	var best string
	for id := range prices {
		if (model == id || strings.HasPrefix(model, id+"-")) && len(id) > len(best) {
			best = id
		}
	}
	if best == "" {
		return 0, false
	}
	p := prices[best]
	return (float64(u.InputTokens)*p.input + float64(u.OutputTokens)*p.output) / 1_000_000, true
}
