package domain

type Tip struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type DailyTips struct {
	Morning   []Tip `json:"morning"`
	Evening   []Tip `json:"evening"`
	Lifestyle []Tip `json:"lifestyle"`
}

// DefaultDailyTips devuelve los consejos fijos del dia.
func DefaultDailyTips() DailyTips {
	return DailyTips{
		Morning: []Tip{
			{Title: "Cleanse", Description: "Use a gentle cleanser to remove overnight buildup"},
			{Title: "Tone", Description: "Apply a pH-balancing toner to prepare skin for products"},
			{Title: "Moisturize", Description: "Hydrate with a lightweight moisturizer"},
			{Title: "Protect", Description: "Apply broad-spectrum SPF 30+ sunscreen"},
		},
		Evening: []Tip{
			{Title: "Double Cleanse", Description: "Remove makeup and impurities thoroughly"},
			{Title: "Treat", Description: "Apply targeted treatments for specific concerns"},
			{Title: "Hydrate", Description: "Use a richer moisturizer for overnight repair"},
		},
		Lifestyle: []Tip{
			{Title: "Stay Hydrated", Description: "Drink 8 glasses of water daily"},
			{Title: "Healthy Diet", Description: "Include antioxidant-rich foods"},
			{Title: "Exercise", Description: "Regular physical activity improves circulation"},
			{Title: "Sleep Well", Description: "Aim for 7-8 hours of quality sleep"},
		},
	}
}
