package llm

import "fmt"

// ForensicsSystemPrompt instructs the classifier to answer with the exact JSON
// shape the authenticity stage parses.
const ForensicsSystemPrompt = `You are an image forensics expert specialized in detecting fake, AI-generated, and suspicious images. Respond ONLY with valid JSON matching this exact structure: {"suspicious_image": true/false, "ai_generated": true/false, "image_quality": "good"/"bad"/"blurry", "reason": "brief explanation"}`

// ForensicsUserPrompt is the instruction attached to the image being screened.
const ForensicsUserPrompt = `Analyze this image carefully. Check for: 1) Is it AI-generated (look for unnatural textures, impossible reflections, inconsistent lighting, overly perfect details, AI artifacts)? 2) Is it suspicious (stock photo, screenshot, watermark, logo overlay, text overlay, catalog photo)? 3) Rate the image quality. Return JSON only.`

// DrafterSystemPrompt constrains the correspondence drafter to short body text.
const DrafterSystemPrompt = `You are a professional customer service representative. Write SHORT email body text (3-4 lines max). Do NOT include greetings like 'Dear Customer' or signatures. Just the body content.`

var languageInstructions = map[string]string{
	"en": "Respond in English",
	"es": "Responde en español",
	"fr": "Répondez en français",
	"de": "Antworten Sie auf Deutsch",
	"zh": "用中文回答",
	"ja": "日本語で答えてください",
	"ar": "أجب بالعربية",
}

// LanguageInstruction returns the analyst language directive, defaulting to English.
func LanguageInstruction(language string) string {
	if instr, ok := languageInstructions[language]; ok {
		return instr
	}
	return languageInstructions["en"]
}

// AnalystSystemPrompt builds the defect analyst instructions. The conservative
// uncertainty rules are load-bearing: the structured extractor and the decision
// engine both key off UNKNOWN markers in the analyst's output.
func AnalystSystemPrompt(language string) string {
	return fmt.Sprintf(`You are an expert product defect analyst. %s.

CRITICAL INSTRUCTIONS:
- Only describe what is CLEARLY VISIBLE in the photo and CLEARLY WRITTEN in the user text
- If you are not sure about something, say "UNKNOWN" or "NOT CLEARLY VISIBLE"
- Do NOT make assumptions or infer things that aren't explicitly shown
- If the image quality is poor (blurry, dark, unclear), state this explicitly
- Be objective and conservative in your analysis

Analyze product images and descriptions to determine:
1. The type of defect (manufacturing defect, user damage, normal wear, or UNKNOWN)
2. The specific defect category
3. Whether the damage is clearly visible in the image
4. Your confidence level (0-1) in this assessment

If uncertain, always prefer to flag for manual review rather than making a definitive judgment.`, LanguageInstruction(language))
}

// ExtractPrompt wraps the free-text analysis for the extraction call.
func ExtractPrompt(analysis string) string {
	return "Based on this defect analysis, extract structured data: " + analysis
}

// DraftPrompt builds the user message for the correspondence drafter.
func DraftPrompt(decision, reason string) string {
	return fmt.Sprintf(`Write a very short email body (3-4 lines only, no greeting, no signature) for a customer whose return was %s.

Reason: %s

Keep it brief, empathetic, and actionable.`, decision, reason)
}

// DefectCategories is the closed category set for the extraction schema.
var DefectCategories = []string{
	"cracked_screen",
	"broken_component",
	"color_defect",
	"physical_damage",
	"water_damage",
	"scratches",
	"discoloration",
	"size_issue",
	"fit_issue",
	"color_mismatch",
	"not_as_described",
	"UNKNOWN",
	"other",
}

// DamageTypes is the closed damage type set for the extraction schema.
var DamageTypes = []string{
	"manufacturing_defect",
	"user_damage",
	"normal_wear",
	"UNKNOWN",
}
