package quizarena

// DefaultBadges is the built-in achievement set, seeded at startup.
var DefaultBadges = []Badge{
	{Name: "Level 5", Icon: "💪", Description: "Reached Level 5", RequirementType: RequireLevel, RequirementValue: 5},
	{Name: "Level 10", Icon: "🧠", Description: "Reached Level 10", RequirementType: RequireLevel, RequirementValue: 10},
	{Name: "Level 25", Icon: "🚀", Description: "Reached Level 25", RequirementType: RequireLevel, RequirementValue: 25},
	{Name: "Level 50", Icon: "👑", Description: "Reached Level 50", RequirementType: RequireLevel, RequirementValue: 50},

	{Name: "Week Warrior", Icon: "🔥", Description: "7-day streak", RequirementType: RequireStreak, RequirementValue: 7},
	{Name: "Month Master", Icon: "🏆", Description: "30-day streak", RequirementType: RequireStreak, RequirementValue: 30},

	{Name: "Perfectionist", Icon: "⭐", Description: "Scored 100% on a quiz", RequirementType: RequireScore, RequirementValue: 100},

	{Name: "Century Club", Icon: "💯", Description: "Answered 100 questions correctly", RequirementType: RequireCorrect, RequirementValue: 100},
	{Name: "Knowledge Master", Icon: "📚", Description: "Answered 500 questions correctly", RequirementType: RequireCorrect, RequirementValue: 500},
}

// DefaultModels is the selectable AI model set, seeded at startup. Exactly
// one entry is marked default.
var DefaultModels = []AIModel{
	{DisplayName: "GPT-4o Mini", ModelName: "gpt-4o-mini", IsActive: true, IsDefault: true},
	{DisplayName: "GPT-4o", ModelName: "gpt-4o", IsActive: true},
	{DisplayName: "GPT-4.1", ModelName: "gpt-4.1", IsActive: true},
	{DisplayName: "GPT-4.1 Mini", ModelName: "gpt-4.1-mini", IsActive: true},
	{DisplayName: "GPT-3.5 Turbo", ModelName: "gpt-3.5-turbo", IsActive: true},
}
