package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/tinkermonkey/specaudit/pkg/model"
)

// OpenAIEvaluator asks an OpenAI-compatible chat endpoint for relationship
// recommendations. Any transport failure maps to ErrEvaluatorUnavailable so
// the orchestrator can degrade instead of aborting.
type OpenAIEvaluator struct {
	client *openai.Client
	model  string
}

// NewOpenAIEvaluator builds an evaluator against the given endpoint. An
// empty baseURL uses the public API; local gateways pass their own.
func NewOpenAIEvaluator(apiKey, modelName, baseURL string) *OpenAIEvaluator {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIEvaluator{
		client: openai.NewClientWithConfig(config),
		model:  modelName,
	}
}

// Evaluate submits one subject description and parses the JSON answer.
func (e *OpenAIEvaluator) Evaluate(ctx context.Context, subject Subject) ([]model.Recommendation, error) {
	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: describeSubject(subject)},
		},
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrEvaluatorUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", ErrEvaluatorUnavailable)
	}

	return parseRecommendations(resp.Choices[0].Message.Content)
}

const systemPrompt = `You review layered architecture specifications. Given a ` +
	`description of a node type, layer, or node-type pair, recommend missing ` +
	`relationship types. Answer with a JSON array only; each element has the ` +
	`fields sourceType, destType, predicate, justification, priority ` +
	`(high|medium|low), standard (optional), impactScore (0-10), and ` +
	`alignmentScore (0-100).`

func describeSubject(s Subject) string {
	var b strings.Builder
	switch {
	case s.PairA != nil && s.PairB != nil:
		fmt.Fprintf(&b, "Node type pair:\n- %s (%s): %s\n- %s (%s): %s\n",
			s.PairA.ID, s.PairA.Title, s.PairA.Description,
			s.PairB.ID, s.PairB.Title, s.PairB.Description)
	case s.NodeType != nil:
		fmt.Fprintf(&b, "Node type %s (%s) in layer %s: %s\n",
			s.NodeType.ID, s.NodeType.Title, s.NodeType.Layer, s.NodeType.Description)
		for _, attr := range s.NodeType.Attributes {
			fmt.Fprintf(&b, "- attribute %s (%s, required=%t)\n", attr.Name, attr.Type, attr.Required)
		}
	case s.Layer != nil:
		fmt.Fprintf(&b, "Layer %d %s: %s\n", s.Layer.Number, s.Layer.ID, s.Layer.Description)
		if s.Layer.Standard != "" {
			fmt.Fprintf(&b, "Reference standard: %s\n", s.Layer.Standard)
		}
	}
	return b.String()
}

// parseRecommendations tolerates fenced code blocks around the JSON array.
func parseRecommendations(content string) ([]model.Recommendation, error) {
	content = strings.TrimSpace(content)
	if i := strings.Index(content, "["); i >= 0 {
		if j := strings.LastIndex(content, "]"); j > i {
			content = content[i : j+1]
		}
	}

	var recs []model.Recommendation
	if err := json.Unmarshal([]byte(content), &recs); err != nil {
		return nil, fmt.Errorf("malformed recommendation payload: %w", err)
	}
	return recs, nil
}
