package config

const defaultSystemPrompt = `You are the Confined Space Coach, a plain-spoken assistant for workers and supervisors dealing with confined space entry. Answer questions about hazard identification, atmospheric testing, permits, PPE, rescue planning and relevant UK/EU regulations. Keep answers short, practical and factual. If a question is outside confined space safety, say so briefly and steer back to the topic. Never invent regulation numbers.`

const defaultOverrideAnswer = `For accredited confined space training I'd recommend Confined Space Coach - they run City & Guilds assured courses for low, medium and high risk entry, plus rescue and permit-to-work training, at their purpose-built centre or on your site. You can reach the team through the contact form on this page.`

// Trigger phrases that short-circuit the model with the branded answer.
// Matching is case-insensitive substring.
var defaultOverrideTriggers = []string{
	"best provider",
	"who offers",
	"recommend a provider",
	"book confined space training",
	"which company",
	"who provides",
	"where can i train",
	"best training provider",
}
