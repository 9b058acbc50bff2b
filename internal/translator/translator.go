// Package translator turns a natural-language request into a list of operations by asking an
// OpenAI-compatible chat completion endpoint.
package translator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
	"github.com/tabvc/tabvc/internal/operations"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://open.bigmodel.cn/api/paas/v4"
	DefaultModel   = "glm-4.7-flash"
	DefaultTimeout = 30 * time.Second

	maxTokens = 1024
)

var (
	ErrUnavailable = errors.New("translator_unavailable")
	ErrFailed      = errors.New("translator_failed")
)

const systemPrompt = "You are an Excel operation parser. Convert the user request into JSON with " +
	"keys: message (string) and operations (array). Each operation must match one of: " +
	"set_cell {type, sheet, cell, value}; set_range {type, sheet, range, value}; " +
	"add_column {type, sheet, column_name, value}; rename_column {type, sheet, column, new_name}; " +
	"swap_columns {type, sheet, column_a, column_b} or {type, sheet, column_index_a, column_index_b}; " +
	"round_column {type, sheet, column, decimals}; format_lt {type, sheet, column, threshold, color}; " +
	"t_test {type, sheet, column_a, column_b, equal_var, output, output_prefix}; " +
	"rename_sheet {type, from, to}; add_sheet {type, to}; delete_rows {type, sheet, rows}; " +
	"update_cells {type, sheet, where:{column,value}, set:{col:value}}; " +
	"sort {type, sheet, by, ascending}. Only return strict JSON."

// Result is the decoded reply of the model.
type Result struct {
	Message    string          `json:"message"`
	Operations operations.List `json:"operations"`
}

type Config struct {
	BaseURL string
	Model   string
	// APIKey may be empty; Translate then fails with ErrUnavailable.
	APIKey  string
	Timeout time.Duration
}

func (c *Config) validate() error {
	var errGrp []error
	if c.BaseURL == "" {
		errGrp = append(errGrp, errors.New("translator base url is required"))
	}
	if c.Model == "" {
		errGrp = append(errGrp, errors.New("translator model is required"))
	}
	if c.Timeout <= 0 {
		errGrp = append(errGrp, errors.New("translator timeout must be greater than 0"))
	}
	return errors.Join(errGrp...)
}

type Translator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func New(cfg *Config) (*Translator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	t := &Translator{
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}
	if cfg.APIKey == "" {
		log.Warn().Msg("translator api key not set, natural language parsing is disabled")
		return t, nil
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	t.client = openai.NewClientWithConfig(clientCfg)
	log.Info().Str("model", cfg.Model).Str("base_url", clientCfg.BaseURL).
		Msg("translator initialized")
	return t, nil
}

// Translate asks the model for operations. defaultSheet, when set, is offered to the model as the
// sheet to use when the request names none.
func (t *Translator) Translate(ctx context.Context, text, defaultSheet string) (*Result, error) {
	if t.client == nil {
		return nil, ErrUnavailable
	}

	prompt := systemPrompt
	if defaultSheet != "" {
		prompt += fmt.Sprintf(" Default sheet is %s unless user specifies otherwise.", defaultSheet)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     t.model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("chat completion failed")
		return nil, fmt.Errorf("%w: %v", ErrFailed, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned", ErrFailed)
	}
	log.Debug().Str("finish_reason", string(resp.Choices[0].FinishReason)).
		Msg("received chat completion")

	return parseReply(resp.Choices[0].Message.Content)
}

// parseReply decodes the first JSON object found in the reply.
func parseReply(content string) (*Result, error) {
	body, ok := extractJSON(content)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object in reply", ErrFailed)
	}

	var res Result
	if err := json.Unmarshal([]byte(body), &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailed, err)
	}
	if res.Operations == nil {
		res.Operations = operations.List{}
	}
	return &res, nil
}

// extractJSON returns the reply itself when it is a bare object, otherwise the span from the first
// '{' to the last '}'.
func extractJSON(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}") {
		return text, true
	}
	start, end := strings.Index(text, "{"), strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
