package openai

import (
    "context"
    "encoding/json"
    "errors"
    "strings"

    openai "github.com/openai/openai-go/v2"
    "github.com/openai/openai-go/v2/option"
    "github.com/openai/openai-go/v2/shared"
    "github.com/rs/zerolog"
    "github.com/ypratap11/consilo-saas/internal/config"
)

const classifyPrompt = "You classify the sentiment of a project management comment. " +
    "Respond with JSON only: {\"label\": \"positive\"|\"negative\"|\"neutral\", \"score\": <confidence 0..1>}. " +
    "Treat frustration, blockers, and delays as negative; progress and resolutions as positive."

type Client struct {
    key   string
    model string
    cli   openai.Client
    log   zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    model := cfg.OpenAIModel
    if strings.TrimSpace(model) == "" { model = "gpt-4.1-mini" }
    cli := openai.NewClient(option.WithAPIKey(cfg.OpenAIKey), option.WithRequestTimeout(cfg.OpenAITimeout))
    return &Client{key: cfg.OpenAIKey, model: model, cli: cli, log: log}
}

// Classify labels one comment. Callers treat any error as neutral.
func (c *Client) Classify(ctx context.Context, text string) (string, float64, error) {
    if strings.TrimSpace(c.key) == "" { return "", 0, errors.New("openai: missing key") }
    params := openai.ChatCompletionNewParams{
        Model: shared.ChatModel(c.model),
        Messages: []openai.ChatCompletionMessageParamUnion{
            openai.SystemMessage(classifyPrompt),
            openai.UserMessage(text),
        },
        Temperature: openai.Float(0),
    }
    resp, err := c.cli.Chat.Completions.New(ctx, params)
    if err != nil { return "", 0, err }
    if len(resp.Choices) == 0 { return "", 0, errors.New("openai: no choices") }

    var out struct {
        Label string  `json:"label"`
        Score float64 `json:"score"`
    }
    content := strings.TrimSpace(resp.Choices[0].Message.Content)
    content = strings.TrimPrefix(content, "```json")
    content = strings.Trim(content, "` \n")
    if err := json.Unmarshal([]byte(content), &out); err != nil { return "", 0, err }
    if out.Score < 0 || out.Score > 1 { return "", 0, errors.New("openai: score out of range") }
    return strings.ToLower(out.Label), out.Score, nil
}
