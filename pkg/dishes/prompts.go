package dishes

// ExtractPrompt is the fixed instruction for per-review item extraction.
const ExtractPrompt = `Analyze this restaurant review and extract every named food or drink item it mentions.

For each item report:
- item_name: the complete item name (e.g., "Classic Poutine", not just "Poutine")
- sentiment: how the reviewer feels about that specific item, from 0.0 (very negative) to 1.0 (very positive)
- quote: the minimal span of review text that supports the sentiment

Rules:
- Skip vague terms like "food", "meal", "dish", "order"
- Skip standalone adjectives (e.g., "delicious", "amazing") without an item name
- Include only actual menu items, not ingredients alone
- If the same item is mentioned more than once, report it once with the overall sentiment
- Keep item names concise (e.g., "BBQ Pulled Pork Poutine", not "the amazing BBQ Pulled Pork Poutine")
- A review mentioning no identifiable items yields an empty list; never invent items`
