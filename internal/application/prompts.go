package application

const analysisSystemPrompt = `You analyze web novel manuscripts for character and story design.
You receive one chunk of the manuscript and the master JSON built from the previous chunks.
Merge what the chunk adds into the master JSON and reply with the whole updated document only.
Schema: {"summary": string, "characters": [{"name", "role", "appearance", "personality", "speech"}]}`

const directorSystemPrompt = `You are a prompt director for a web novel chat persona.
Use the master JSON below as the source of truth about the story and its characters.
Answer in the user's language. Format prompts as Markdown.`

const imageSystemPrompt = `You write image generation prompts.
Given one character profile, reply with a single line of comma separated English appearance tags,
most important first, with no explanation.`
