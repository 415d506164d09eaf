// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/jeranaias/shuaib-registry/internal/student"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemini-3-flash-preview"

// Chat roles.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ErrNoAPIKey is returned by New when no API key is configured.
var ErrNoAPIKey = errors.New("gemini: no API key configured")

// Message is one turn of conversation history.
type Message struct {
	Role string
	Text string
}

// Service is what the assistant needs from the AI backend.
type Service interface {
	// Extract asks for the student fields contained in text.
	Extract(ctx context.Context, text string) (Extraction, error)

	// Reply continues the conversation in history and returns the answer.
	Reply(ctx context.Context, history []Message) (string, error)
}

// generator is the slice of the genai client used here.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// =============================================================================
// CLIENT
// =============================================================================

// Config configures a Client.
type Config struct {
	APIKey string
	Model  string
	Logger *zap.Logger
}

// Client is a Service backed by the Gemini API.
type Client struct {
	models generator
	model  string
	logger *zap.Logger
}

// New creates a Gemini client. It returns ErrNoAPIKey when cfg.APIKey is empty.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newClient(client.Models, cfg), nil
}

func newClient(models generator, cfg Config) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{models: models, model: model, logger: logger}
}

// Model returns the model name requests are sent to.
func (c *Client) Model() string { return c.model }

// Extract implements Service.
func (c *Client) Extract(ctx context.Context, text string) (Extraction, error) {
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(text), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    extractionSchema(),
	})
	if err != nil {
		c.logger.Warn("extraction request failed", zap.Error(err))
		return Extraction{}, fmt.Errorf("gemini: extract: %w", err)
	}

	out, err := ParseExtraction(resp.Text())
	if err != nil {
		c.logger.Warn("extraction reply unusable", zap.Error(err))
		return Extraction{}, err
	}
	c.logger.Debug("extraction complete", zap.Bool("complete", out.IsComplete), zap.Strings("missing", out.MissingFields))
	return out, nil
}

// Reply implements Service.
func (c *Client) Reply(ctx context.Context, history []Message) (string, error) {
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text, role))
	}

	resp, err := c.models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
	})
	if err != nil {
		c.logger.Warn("conversation request failed", zap.Error(err))
		return "", fmt.Errorf("gemini: reply: %w", err)
	}
	return resp.Text(), nil
}

func extractionSchema() *genai.Schema {
	str := func() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }

	props := make(map[string]*genai.Schema, len(student.Fields)+2)
	for _, f := range student.Fields {
		props[f] = str()
	}
	props["isComplete"] = &genai.Schema{
		Type:        genai.TypeBoolean,
		Description: "True if all core fields are present",
	}
	props["missingFields"] = &genai.Schema{
		Type:  genai.TypeArray,
		Items: str(),
	}

	required := append([]string{}, student.Fields...)
	required = append(required, "isComplete")

	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   required,
	}
}

// =============================================================================
// UNAVAILABLE SERVICE
// =============================================================================

// Unavailable is a Service whose every call fails with Err. The assistant
// runs on it when the real client cannot be built, so each message ends in
// the generic failure reply while the rest of the app keeps working.
type Unavailable struct {
	Err error
}

// Extract implements Service.
func (u Unavailable) Extract(context.Context, string) (Extraction, error) {
	return Extraction{}, u.err()
}

// Reply implements Service.
func (u Unavailable) Reply(context.Context, []Message) (string, error) {
	return "", u.err()
}

func (u Unavailable) err() error {
	if u.Err == nil {
		return ErrNoAPIKey
	}
	return u.Err
}
