package clean

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is the generation model used for name cleaning.
const DefaultModel = "gemini-flash-latest"

// fewShotExamples teaches the model the house style. Kept small; the
// prompt carries the rules, the examples carry the tone.
const fewShotExamples = `[
  {"original": "כוס זכוכית 330 מל 7290011223344 (24)", "cleaned": "כוס זכוכית 330 מ״ל"},
  {"original": "MKT-50 צנצנת אחסון במבוק", "cleaned": "צנצנת אחסון במבוק"},
  {"original": "מגש  עץ מלבני 20X30", "cleaned": "מגש עץ מלבני 20×30 ס״מ"},
  {"original": "סט סכום 24 חלקים OH-029", "cleaned": "סט סכו״ם 24 חלקים"},
  {"original": "שטיח אמבט   אפור 50*80", "cleaned": "שטיח אמבט אפור 50×80 ס״מ"}
]`

// Gemini cleans names with one batched model call. Attempt one runs
// with the Google Search tool so the model can resolve bare codes to
// real product names; attempt two drops tools and forces a JSON
// response, which recovers most formatting failures.
type Gemini struct {
	client *genai.Client
	model  string
}

var _ Cleaner = (*Gemini)(nil)

// NewGemini connects the cleaner. model "" selects DefaultModel.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("clean: gemini needs an api key")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("clean: create gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Clean(ctx context.Context, names []string) (map[string]string, error) {
	if len(names) == 0 {
		return map[string]string{}, nil
	}
	prompt, err := buildPrompt(names)
	if err != nil {
		return nil, err
	}

	// Attempt 1: with the search tool.
	withSearch := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
	text, firstErr := g.generate(ctx, prompt, withSearch)
	if firstErr == nil {
		if result, ok := parseResponse(text); ok {
			return result, nil
		}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Attempt 2: no tools, forced JSON, stricter instruction.
	forced := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	retryPrompt := prompt + "\n\nIMPORTANT: Previous attempt failed. You MUST return a simple JSON object mapping original name -> cleaned name. Do not return a list."
	text, secondErr := g.generate(ctx, retryPrompt, forced)
	if secondErr == nil {
		if result, ok := parseResponse(text); ok {
			return result, nil
		}
		secondErr = fmt.Errorf("unparseable model response")
	}
	if firstErr != nil {
		return nil, fmt.Errorf("clean: gemini failed twice: %w (first attempt: %v)", secondErr, firstErr)
	}
	return nil, fmt.Errorf("clean: gemini failed: %w", secondErr)
}

func (g *Gemini) generate(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func buildPrompt(names []string) (string, error) {
	input, err := json.Marshal(names)
	if err != nil {
		return "", fmt.Errorf("clean: encode names: %w", err)
	}
	return fmt.Sprintf(`You are an expert retail copywriter for a high-end home goods store.
Your task is to reformat and clean raw product names from an ERP system for display on elegant shelf signage.

### Strict rules
1. If a name is only a barcode or code, use search to find the real product name.
2. Scrub all internal codes, SKUs and catalogue ids (e.g. '7290...', 'MKT123', '(24)', 'OH-029').
3. Fix spacing, punctuation and Hebrew grammar.
4. Use "×" for dimensions and format units nicely (e.g. "100 מ״ל").
5. Keep brand names and key attributes (color, size, material).
6. Return ONLY a JSON object mapping original name -> cleaned name.

### Examples
%s

### Input list
%s

### Output JSON
`, fewShotExamples, input), nil
}

// parseResponse decodes the model output. It tolerates markdown code
// fences and recovers list-shaped answers (a list of
// {original, cleaned} objects or of single-pair objects).
func parseResponse(text string) (map[string]string, bool) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		if i := strings.IndexByte(cleaned, '\n'); i >= 0 {
			cleaned = cleaned[i+1:]
		}
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
		cleaned = strings.TrimSpace(cleaned)
	}
	if cleaned == "" {
		return nil, false
	}

	var asMap map[string]string
	if err := json.Unmarshal([]byte(cleaned), &asMap); err == nil {
		return asMap, len(asMap) > 0
	}

	var asList []map[string]string
	if err := json.Unmarshal([]byte(cleaned), &asList); err != nil {
		return nil, false
	}
	recovered := make(map[string]string)
	for _, item := range asList {
		var orig, clean string
		for k, v := range item {
			switch strings.ToLower(k) {
			case "original":
				orig = v
			case "cleaned":
				clean = v
			}
		}
		if orig != "" && clean != "" {
			recovered[orig] = clean
			continue
		}
		if len(item) == 1 {
			for k, v := range item {
				recovered[k] = v
			}
		}
	}
	return recovered, len(recovered) > 0
}
