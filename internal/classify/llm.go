package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"countyscan/internal/config"
	"countyscan/internal/httpx"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"
const defaultOpenAIModel = "gpt-4o-mini"

type LLMUsage struct {
	InputTokens              int64
	OutputTokens             int64
	CacheCreationInputTokens int64
	CacheReadInputTokens     int64
}

func (u LLMUsage) TotalTokens() int64 {
	return u.InputTokens + u.OutputTokens
}

func (u *LLMUsage) Add(other LLMUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.CacheCreationInputTokens += other.CacheCreationInputTokens
	u.CacheReadInputTokens += other.CacheReadInputTokens
}

// LLMClassifier batches labels through a chat-completion provider. The
// credential is injected at construction; nothing here reads the
// environment.
type LLMClassifier struct {
	provider  string
	model     string
	apiKey    string
	batchSize int
}

func NewLLMClassifier(cfg config.Config) *LLMClassifier {
	model := cfg.LLMModel
	if model == "" {
		if cfg.LLMProvider == "openai" {
			model = defaultOpenAIModel
		} else {
			model = defaultAnthropicModel
		}
	}
	return &LLMClassifier{
		provider:  cfg.LLMProvider,
		model:     model,
		apiKey:    cfg.LLMAPIKey(),
		batchSize: cfg.LLMBatchSize,
	}
}

// ClassifyLabels maps each label to a category. Batches run sequentially;
// a failed batch or an invalid per-item response falls back to the rule
// table, so the result always covers every input label.
func (c *LLMClassifier) ClassifyLabels(ctx context.Context, labels []string) (map[string]string, LLMUsage, error) {
	if c.apiKey == "" {
		return nil, LLMUsage{}, fmt.Errorf("no API key configured for provider %s", c.provider)
	}

	batchSize := c.batchSize
	if batchSize < 1 {
		batchSize = 50
	}

	mapping := make(map[string]string, len(labels))
	totalUsage := LLMUsage{}

	for start := 0; start < len(labels); start += batchSize {
		end := start + batchSize
		if end > len(labels) {
			end = len(labels)
		}
		batch := labels[start:end]
		batchNum := start/batchSize + 1

		log.Printf("llm classify provider=%s model=%s batch=%d labels=%d", c.provider, c.model, batchNum, len(batch))
		responseText, usage, err := c.call(ctx, classifySystemPrompt, buildBatchPrompt(batch))
		totalUsage.Add(usage)
		if err != nil {
			log.Printf("llm classify batch=%d error=%v falling back to rules for this batch", batchNum, err)
			for _, label := range batch {
				mapping[label] = RuleClassify(label)
			}
			continue
		}

		applyBatchResponse(mapping, batch, responseText)
		log.Printf("llm classify batch=%d done tokens_in=%d tokens_out=%d", batchNum, usage.InputTokens, usage.OutputTokens)
	}

	log.Printf("llm classify done labels=%d total_tokens=%d", len(labels), totalUsage.TotalTokens())
	return mapping, totalUsage, nil
}

// applyBatchResponse pairs response lines with batch labels by position.
// Anything invalid or missing becomes MISC, keeping the batch total.
func applyBatchResponse(mapping map[string]string, batch []string, responseText string) {
	lines := strings.Split(strings.TrimSpace(responseText), "\n")
	for i, label := range batch {
		category := "MISC"
		if i < len(lines) {
			candidate := normalizeCategoryLine(lines[i])
			if ValidCategory(candidate) {
				category = candidate
			}
		}
		mapping[label] = category
	}
}

// normalizeCategoryLine strips list numbering the model sometimes adds
// ("3. MORTGAGE" -> "MORTGAGE") and uppercases.
func normalizeCategoryLine(line string) string {
	line = strings.TrimSpace(line)
	if dot := strings.Index(line, ". "); dot > 0 && dot <= 4 {
		line = line[dot+2:]
	}
	return strings.ToUpper(strings.TrimSpace(line))
}

const classifySystemPrompt = "You are a precise classification assistant. Respond with only category names, one per line."

func buildBatchPrompt(batch []string) string {
	var b strings.Builder
	b.WriteString(`Classify the following document types from property records into one of these standardized categories:

Categories: ` + strings.Join(Categories, ", ") + `

Rules:
- SALE_DEED: Any type of deed (Warranty Deed, Quitclaim Deed, General Warranty Deed, etc.)
- MORTGAGE: Mortgage documents, mortgage assignments, mortgage modifications
- DEED_OF_TRUST: Deed of Trust, Trust Deed, D/T, DT, D-TR
- RELEASE: Release, Partial Release, Release of Lien, Satisfaction, Cancellation
- LIEN: Lien, Mechanic's Lien, Tax Lien, Judgment Lien
- PLAT: Plat, Map, Map Plat, Subdivision Plat
- EASEMENT: Easement, Right of Way
- LEASE: Lease, Lease Agreement
- MISC: Everything else that doesn't fit the above categories

For each document type, respond with ONLY the category name, nothing else.

Document types to classify:
`)
	for i, label := range batch {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, label))
	}
	return b.String()
}

func (c *LLMClassifier) call(ctx context.Context, systemPrompt, userPrompt string) (string, LLMUsage, error) {
	if c.provider == "openai" {
		return callOpenAI(ctx, c.apiKey, c.model, systemPrompt, userPrompt)
	}
	return callAnthropic(ctx, c.apiKey, c.model, systemPrompt, userPrompt)
}

// --- Anthropic ---

func callAnthropic(ctx context.Context, apiKey, model, systemPrompt, userPrompt string) (string, LLMUsage, error) {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 4096,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt, CacheControl: anthropic.NewCacheControlEphemeralParam()},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		log.Printf("llm anthropic error: %v", err)
		return "", LLMUsage{}, fmt.Errorf("Anthropic API error: %w", err)
	}
	usage := LLMUsage{
		InputTokens:              message.Usage.InputTokens,
		OutputTokens:             message.Usage.OutputTokens,
		CacheCreationInputTokens: message.Usage.CacheCreationInputTokens,
		CacheReadInputTokens:     message.Usage.CacheReadInputTokens,
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, usage, nil
		}
	}
	return "", usage, fmt.Errorf("no text content in Anthropic response")
}

// --- OpenAI ---

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
		TotalTokens      int64 `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func callOpenAI(ctx context.Context, apiKey, model, systemPrompt, userPrompt string) (string, LLMUsage, error) {
	reqBody := openAIRequest{
		Model: model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.1,
		MaxTokens:   4096,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", LLMUsage{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.openai.com/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", LLMUsage{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := httpx.ExternalHTTPClient().Do(req)
	if err != nil {
		log.Printf("llm openai error: %v", err)
		return "", LLMUsage{}, fmt.Errorf("OpenAI API error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", LLMUsage{}, fmt.Errorf("reading response: %w", err)
	}

	var openAIResp openAIResponse
	if err := json.Unmarshal(respBody, &openAIResp); err != nil {
		return "", LLMUsage{}, fmt.Errorf("parsing OpenAI response: %w", err)
	}

	if openAIResp.Error != nil {
		log.Printf("llm openai api error: %s", openAIResp.Error.Message)
		return "", LLMUsage{}, fmt.Errorf("OpenAI API error: %s", openAIResp.Error.Message)
	}

	if len(openAIResp.Choices) == 0 {
		return "", LLMUsage{}, fmt.Errorf("no choices in OpenAI response")
	}
	usage := LLMUsage{}
	if openAIResp.Usage != nil {
		usage.InputTokens = openAIResp.Usage.PromptTokens
		usage.OutputTokens = openAIResp.Usage.CompletionTokens
	}

	return openAIResp.Choices[0].Message.Content, usage, nil
}
