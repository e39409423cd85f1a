package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/lexio-app/lexio/internal/inference"
)

type Client struct {
	httpClient       *resty.Client
	model            string
	maxRetryAttempts uint
}

func NewClient(apiKey, model string, retryAttempts uint) *Client {
	client := resty.New()
	client.SetBaseURL("https://api.openai.com/v1")
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient:       client,
		model:            model,
		maxRetryAttempts: retryAttempts,
	}
}

func (client Client) Close() error {
	return client.httpClient.Close()
}

// GetModel returns the model name configured for this client
func (client Client) GetModel() string {
	return client.model
}

type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature,omitempty"`
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type ChoiceMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Retry on JSON parsing errors as they might be due to incomplete responses
	errStr := err.Error()
	if strings.Contains(errStr, "json.Unmarshal") || strings.Contains(errStr, "unexpected end of JSON input") {
		return true
	}

	// Retry on network-related errors
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// Retry on 5xx errors (server errors)
	if strings.Contains(errStr, "response error 5") {
		return true
	}

	// Retry on rate limiting (429)
	if strings.Contains(errStr, "response error 429") {
		return true
	}

	return false
}

// GenerateClarifications implements the inference.Client interface
func (client *Client) GenerateClarifications(
	ctx context.Context,
	params inference.GenerateClarificationsRequest,
) (inference.GenerateClarificationsResponse, error) {
	var result inference.GenerateClarificationsResponse
	if err := retry.Do(
		func() error {
			response, err := client.generateClarifications(ctx, params)
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			result = response
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	); err != nil {
		return inference.GenerateClarificationsResponse{}, err
	}
	return result, nil
}

func (client *Client) getRequestBody(args inference.GenerateClarificationsRequest) (ChatCompletionRequest, error) {
	systemPrompt := `You are an elementary reading teacher's assistant that rewrites vocabulary material for young students.

GOAL
Return ONLY a JSON array. For each input word, include:
- "word": the word as provided
- "part_of_speech": noun, verb, adjective or adverb as used in the given definition
- "what_it_is": the given definition restated in plain words a student at the given grade level can read
- "what_it_is_not": one short sentence naming a common confusion and why the word does not mean that

STRICT OUTPUT: No text outside the JSON. Process ALL words in the input array, in order.

RULES
- Never use the word itself inside what_it_is.
- what_it_is stays faithful to the given definition; simplify wording, never change the sense.
- what_it_is_not contrasts with a plausible mix-up (a look-alike word or an opposite), not a random fact.
- When grade_level is missing, write for a third grader.`

	type promptExample struct {
		userRequest     []inference.WordInput
		assistantAnswer []inference.Clarification
	}

	examples := []promptExample{
		{
			userRequest: []inference.WordInput{
				{Word: "arid", Definition: "having little or no rain; too dry to support much plant life", GradeLevel: 3},
			},
			assistantAnswer: []inference.Clarification{
				{
					Word:         "arid",
					PartOfSpeech: "adjective",
					WhatItIs:     "very dry, with almost no rain",
					WhatItIsNot:  "It is not the same as 'hot' - a place can be cold and still arid if no rain falls there.",
				},
			},
		},
		{
			userRequest: []inference.WordInput{
				{Word: "reluctant", Definition: "unwilling and hesitant; disinclined", GradeLevel: 4},
			},
			assistantAnswer: []inference.Clarification{
				{
					Word:         "reluctant",
					PartOfSpeech: "adjective",
					WhatItIs:     "not wanting to do something",
					WhatItIsNot:  "It does not mean 'unable' - a reluctant person could do the thing, they just do not want to.",
				},
			},
		},
	}

	messages := []Message{
		{
			Role:    RoleSystem,
			Content: systemPrompt,
		},
	}

	for _, example := range examples {
		userJSON, err := json.Marshal(example.userRequest)
		if err != nil {
			return ChatCompletionRequest{}, fmt.Errorf("failed to marshal example user request: %w", err)
		}
		assistantJSON, err := json.Marshal(example.assistantAnswer)
		if err != nil {
			return ChatCompletionRequest{}, fmt.Errorf("failed to marshal example assistant answer: %w", err)
		}
		messages = append(messages,
			Message{
				Role:    RoleUser,
				Content: string(userJSON),
			},
			Message{
				Role:    RoleAssistant,
				Content: string(assistantJSON),
			},
		)
	}

	userJSON, err := json.Marshal(args.Words)
	if err != nil {
		return ChatCompletionRequest{}, fmt.Errorf("failed to marshal words: %w", err)
	}
	messages = append(messages, Message{
		Role:    RoleUser,
		Content: string(userJSON),
	})

	body := ChatCompletionRequest{
		Model:       client.model,
		Temperature: 0.3,
		Messages:    messages,
	}

	return body, nil
}

// generateClarifications clarifies multiple words in a single completion call
func (client *Client) generateClarifications(
	ctx context.Context,
	args inference.GenerateClarificationsRequest,
) (inference.GenerateClarificationsResponse, error) {
	if len(args.Words) == 0 {
		return inference.GenerateClarificationsResponse{}, nil
	}

	requestBody, err := client.getRequestBody(args)
	if err != nil {
		return inference.GenerateClarificationsResponse{}, fmt.Errorf("getRequestBody > %w", err)
	}

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&ChatCompletionResponse{}).
		Post("/chat/completions")
	if err != nil {
		return inference.GenerateClarificationsResponse{}, fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return inference.GenerateClarificationsResponse{}, fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody := response.Result().(*ChatCompletionResponse)
	if responseBody == nil || len(responseBody.Choices) == 0 {
		return inference.GenerateClarificationsResponse{}, fmt.Errorf("empty response body or choices: %s", response.String())
	}

	content := responseBody.Choices[0].Message.Content
	if content == "" {
		return inference.GenerateClarificationsResponse{}, fmt.Errorf("empty response content: %s", response.String())
	}
	slog.Default().Debug("openai response content",
		"request", requestBody,
		"response", responseBody,
	)

	var decoded []inference.Clarification
	if err := json.NewDecoder(strings.NewReader(content)).Decode(&decoded); err != nil {
		slog.Default().Error("Failed to parse OpenAI response as JSON",
			"request", requestBody,
			"wordCount", len(args.Words),
			"error", err)
		return inference.GenerateClarificationsResponse{}, fmt.Errorf("json.Unmarshal(%s) > %w", content, err)
	}
	return inference.GenerateClarificationsResponse{Clarifications: decoded}, nil
}
