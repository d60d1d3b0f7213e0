package ai

const InteractionSystemPrompt = `You are a clinical pharmacologist. You answer only with the requested JSON object.`

// InteractionPrompt expects, in order: drug A, drug B, the profile context
// block and the similarity score.
const InteractionPrompt = `
# Task Context
You are a clinical pharmacologist. Analyze the potential drug-drug interaction between %s and %s.

# Background Data
%s

Embedding similarity between the two drug profiles: %.3f

# Detailed Task Description & Rules
Provide a concise assessment including:
1. Interaction severity (mild/moderate/severe)
2. Brief mechanism explanation
3. Clinical recommendation

- Base the severity on the pharmacological classes and mechanisms above.
- When information is missing, say so and prefer the more cautious recommendation.
- Keep the description and the recommendation to one or two sentences each.

# Output Formatting
Respond in JSON format:
{
  "severity": "mild|moderate|severe",
  "description": "brief description",
  "recommendation": "clinical recommendation"
}
`

// InteractionDrugContext expects, in order: label, drug name, class,
// mechanism and interaction profile.
const InteractionDrugContext = `%s (%s):
- Class: %s
- Mechanism: %s
- Interaction Profile: %s
`
