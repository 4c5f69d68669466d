package survey

// Option is one selectable answer with its scoring value and weight.
type Option struct {
	Text   string  `json:"text"`
	Value  float64 `json:"value"`
	Weight float64 `json:"weight"`
}

// Question is one survey question, pre-mapped to exactly one category.
type Question struct {
	Text     string   `json:"text"`
	Category string   `json:"category"`
	Options  []Option `json:"options"`
}

// The 16 fixed profile categories.
const (
	CatIndividualRights = "Individual Rights"
	CatEconomicSystems  = "Economic Systems"
	CatGovernmentRole   = "Government Role"
	CatEnvironmental    = "Environmental"
	CatForeignPolicy    = "Foreign Policy"
	CatSocialIssues     = "Social Issues"
	CatDialogicTendency = "Dialogic Tendency"
	CatMarketRegulation = "Market Regulation"
	CatCivilLiberties   = "Civil Liberties"
	CatNationalSecurity = "National Security"
	CatTruthSeeking     = "Truth-Seeking"
	CatArgumentative    = "Argumentative"
	CatStoryTelling     = "Story-Telling"
	CatEmpathy          = "Empathy"
	CatRespectfulness   = "Respectfulness"
	CatOpenMindedness   = "Open-Mindedness"
)

// categoryQuestions maps each category to the question indices that feed
// it. Individual Rights and Social Issues span two questions each; the
// rest map one-to-one.
var categoryQuestions = map[string][]int{
	CatIndividualRights: {0, 1},
	CatGovernmentRole:   {2},
	CatEnvironmental:    {3},
	CatEconomicSystems:  {4},
	CatDialogicTendency: {5},
	CatForeignPolicy:    {6},
	CatSocialIssues:     {7, 10},
	CatMarketRegulation: {8},
	CatCivilLiberties:   {9},
	CatNationalSecurity: {11},
	CatTruthSeeking:     {12},
	CatArgumentative:    {13},
	CatStoryTelling:     {14},
	CatEmpathy:          {15},
	CatRespectfulness:   {16},
	CatOpenMindedness:   {17},
}

// Questions is the fixed 18-question survey. Higher option values lean
// progressive/libertarian by this system's convention; weights emphasize
// the more diagnostic answers.
var Questions = []Question{
	{
		Text:     "A whistleblower leaks classified information about government surveillance. What should happen?",
		Category: CatIndividualRights,
		Options: []Option{
			{Text: "Prosecute them to the fullest extent - national security is paramount", Value: 1, Weight: 1.2},
			{Text: "Investigate but consider their motivations during sentencing", Value: 5, Weight: 1.0},
			{Text: "Protect them with strong whistleblower laws", Value: 10, Weight: 1.5},
		},
	},
	{
		Text:     "A social media platform is removing posts containing misinformation about public health. This is:",
		Category: CatIndividualRights,
		Options: []Option{
			{Text: "Appropriate - platforms should prevent harmful misinformation", Value: 3, Weight: 1.0},
			{Text: "Acceptable only for clear medical falsehoods", Value: 6, Weight: 1.0},
			{Text: "Censorship - all speech should be protected regardless of content", Value: 10, Weight: 1.3},
		},
	},
	{
		Text:     "How should healthcare be structured?",
		Category: CatGovernmentRole,
		Options: []Option{
			{Text: "Fully private system with minimal regulation", Value: 1, Weight: 1.4},
			{Text: "Mixed public-private system with subsidies for those in need", Value: 5, Weight: 1.0},
			{Text: "Universal single-payer system covering all citizens", Value: 10, Weight: 1.2},
		},
	},
	{
		Text:     "A major corporation wants to build a factory that would create jobs but increase pollution. The government should:",
		Category: CatEnvironmental,
		Options: []Option{
			{Text: "Allow it - economic growth is the priority", Value: 1, Weight: 1.1},
			{Text: "Permit it with environmental regulations and monitoring", Value: 5, Weight: 1.0},
			{Text: "Block it unless zero-emission standards can be met", Value: 10, Weight: 1.3},
		},
	},
	{
		Text:     "The wealthiest citizens should pay in taxes:",
		Category: CatEconomicSystems,
		Options: []Option{
			{Text: "Lower rates to encourage investment and growth", Value: 1, Weight: 1.2},
			{Text: "Proportional rates similar to middle-income earners", Value: 5, Weight: 1.0},
			{Text: "Significantly higher rates to fund social programs", Value: 10, Weight: 1.4},
		},
	},
	{
		Text:     "When discussing politics with someone who disagrees with you, you typically:",
		Category: CatDialogicTendency,
		Options: []Option{
			{Text: "Avoid the conversation or quickly end it", Value: 1, Weight: 1.5},
			{Text: "Listen politely but rarely change your position", Value: 5, Weight: 1.0},
			{Text: "Engage deeply and consider revising your views based on new information", Value: 10, Weight: 1.3},
		},
	},
	{
		Text:     "A country is considering military intervention in a foreign conflict. The best approach is:",
		Category: CatForeignPolicy,
		Options: []Option{
			{Text: "Intervene decisively to protect strategic interests", Value: 3, Weight: 1.1},
			{Text: "Provide humanitarian aid but avoid direct military involvement", Value: 7, Weight: 1.0},
			{Text: "Only act with broad international consensus and UN approval", Value: 10, Weight: 1.2},
		},
	},
	{
		Text:     "Universities should implement affirmative action in admissions to increase diversity:",
		Category: CatSocialIssues,
		Options: []Option{
			{Text: "No - admissions should be based solely on merit", Value: 1, Weight: 1.3},
			{Text: "Yes, but as one of many factors in a holistic process", Value: 6, Weight: 1.0},
			{Text: "Yes - aggressive measures are needed to address historical inequities", Value: 10, Weight: 1.2},
		},
	},
	{
		Text:     "Should the government impose price controls on essential goods?",
		Category: CatMarketRegulation,
		Options: []Option{
			{Text: "Yes, price controls ensure affordability", Value: 10, Weight: 1.2},
			{Text: "Only during emergencies", Value: 5, Weight: 1.0},
			{Text: "No, they distort markets", Value: 1, Weight: 1.3},
		},
	},
	{
		Text:     "Should recreational drug use be decriminalized?",
		Category: CatCivilLiberties,
		Options: []Option{
			{Text: "Fully decriminalize all drugs", Value: 10, Weight: 1.2},
			{Text: "Partial decriminalization for certain substances", Value: 5, Weight: 1.0},
			{Text: "Keep current laws", Value: 1, Weight: 1.3},
		},
	},
	{
		Text:     "Should same-sex marriage be protected at the federal level?",
		Category: CatSocialIssues,
		Options: []Option{
			{Text: "Yes, it's a fundamental right", Value: 10, Weight: 1.2},
			{Text: "Support, but states can decide", Value: 5, Weight: 1.0},
			{Text: "No, should be defined by tradition", Value: 1, Weight: 1.3},
		},
	},
	{
		Text:     "Should military spending be reduced to fund social welfare programs?",
		Category: CatNationalSecurity,
		Options: []Option{
			{Text: "Significantly reduce military budget", Value: 10, Weight: 1.2},
			{Text: "Moderate cuts to reallocate funds", Value: 5, Weight: 1.0},
			{Text: "Maintain or increase spending for security", Value: 1, Weight: 1.3},
		},
	},
	{
		Text:     "When you hear a political argument from the other party, you typically:",
		Category: CatTruthSeeking,
		Options: []Option{
			{Text: "Search for factual evidence before reacting", Value: 10, Weight: 1.2},
			{Text: "Listen then fact-check later", Value: 5, Weight: 1.0},
			{Text: "Dismiss without considering facts", Value: 1, Weight: 1.3},
		},
	},
	{
		Text:     "When engaging with someone from the opposite party, you tend to:",
		Category: CatArgumentative,
		Options: []Option{
			{Text: "Focus only on winning the debate", Value: 1, Weight: 1.3},
			{Text: "Aim for constructive dialogue", Value: 10, Weight: 1.2},
			{Text: "Avoid conflict altogether", Value: 5, Weight: 1.0},
		},
	},
	{
		Text:     "You prefer to explain your political views through:",
		Category: CatStoryTelling,
		Options: []Option{
			{Text: "Personal anecdotes and narratives", Value: 10, Weight: 1.2},
			{Text: "Statistical data and reports", Value: 5, Weight: 1.0},
			{Text: "Short slogans and catchphrases", Value: 1, Weight: 1.3},
		},
	},
	{
		Text:     "When someone from the other party shares a personal story, you respond by:",
		Category: CatEmpathy,
		Options: []Option{
			{Text: "Showing understanding and empathy", Value: 10, Weight: 1.2},
			{Text: "Acknowledging but fact-checking", Value: 5, Weight: 1.0},
			{Text: "Changing subject to debate points", Value: 1, Weight: 1.3},
		},
	},
	{
		Text:     "During political discussions, you display:",
		Category: CatRespectfulness,
		Options: []Option{
			{Text: "Polite and respectful tone throughout", Value: 10, Weight: 1.2},
			{Text: "Sometimes use harsh language", Value: 5, Weight: 1.0},
			{Text: "Frequently resort to insults", Value: 1, Weight: 1.3},
		},
	},
	{
		Text:     "When you disagree strongly with someone politically, you:",
		Category: CatOpenMindedness,
		Options: []Option{
			{Text: "Keep an open mind and consider new perspectives", Value: 10, Weight: 1.2},
			{Text: "Stand firm but listen", Value: 5, Weight: 1.0},
			{Text: "Shut down the conversation", Value: 1, Weight: 1.3},
		},
	},
}
