package core

// prompts.go defines the prompts sent to the text-completion service. Keeping
// them in one file makes the wording easy to tweak without touching the
// lookup flow.

const (
	// SystemPrompt frames every lookup, whatever the input method.
	SystemPrompt = "You are a medical information assistant."

	// TextLookupPrompt asks about a single named medication. The %s verb
	// receives the name exactly as the user typed it.
	TextLookupPrompt = `Provide detailed information about the medication: %s

Include:
- Primary use
- Benefits
- Side effects
- Patient selection criteria
- Dosage guidelines
- Important precautions

Format the response as markdown.`

	// ImageLookupPrompt hands the model raw OCR output and asks it to pick
	// the medication names out before describing each one.
	ImageLookupPrompt = "Analyze the following text extracted from a medication image:\n" +
		"```\n%s\n```\n\n" +
		`Identify any medication names mentioned and provide detailed information about them.
For each identified medication, include:
- Primary use
- Benefits
- Side effects
- Patient selection criteria
- Dosage guidelines
- Important precautions

Format the response as markdown.`
)
