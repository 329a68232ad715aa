package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/vertexai/genai"

	"github.com/JaimeStill/filevault/pkg/lifecycle"
)

var refusalPhrases = []string{
	"i am unable to",
	"i cannot fulfill",
	"i cannot provide",
	"as a large language model",
}

type gemini struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	name    string
	timeout time.Duration
	logger  *slog.Logger
}

// newGemini uses Application Default Credentials.
func newGemini(ctx context.Context, cfg *Config, logger *slog.Logger) (*gemini, error) {
	client, err := genai.NewClient(ctx, cfg.Project, cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("create vertex client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}
	model.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0),
		ResponseSchema:   responseSchema(),
	}

	return &gemini{
		client:  client,
		model:   model,
		name:    cfg.Model,
		timeout: cfg.TimeoutDuration(),
		logger:  logger,
	}, nil
}

func (g *gemini) Start(lc *lifecycle.Coordinator) error {
	g.logger.Info("starting extraction system", "model", g.name)

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := g.client.Close(); err != nil {
			g.logger.Error("vertex client close failed", "error", err)
		}
	})
	return nil
}

func (g *gemini) Extract(ctx context.Context, pdf []byte) (*Result, error) {
	if len(pdf) == 0 {
		return nil, ErrEmptyDocument
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.model.GenerateContent(
		ctx,
		genai.Blob{MIMEType: "application/pdf", Data: pdf},
		genai.Text(userPrompt),
	)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, ErrNoContent
	}
	if refused(text) {
		g.logger.Warn("model refused document", "response", text)
		return nil, ErrRefused
	}

	result, err := Decode(text)
	if err != nil {
		return nil, err
	}

	g.logger.Info("document extracted", "model", g.name, "duration", time.Since(start))
	return result, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c.Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range c.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(b.String())
}

func refused(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func responseSchema() *genai.Schema {
	number := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeNumber, Nullable: true, Description: desc}
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"filing_status": {
				Type:        genai.TypeString,
				Nullable:    true,
				Description: "Filing status as printed on the form",
			},
			"w2_wages":          number("Wages, salaries, tips (W-2 box 1 total)"),
			"total_deductions":  number("Standard or itemized deduction amount"),
			"ira_distributions": number("IRA distributions, taxable amount"),
			"capital_gain_loss": number("Capital gain or (loss)"),
		},
		Required: []string{
			"filing_status",
			"w2_wages",
			"total_deductions",
			"ira_distributions",
			"capital_gain_loss",
		},
	}
}
