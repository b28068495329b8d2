// Package gemini adapts the Vertex AI generative client to domain.GenerativeModel.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"

	"paper-extractor/internal/domain"
)

// Client is the process-wide handle to Vertex AI. The underlying client is
// created on first use and shared by every request afterwards.
type Client struct {
	projectID       string
	location        string
	credentialsFile string
	logger          domain.Logger

	mu     sync.Mutex
	client *genai.Client
}

// NewClient returns an uninitialized client. No network activity happens
// until the first Generate call.
func NewClient(config domain.Config, logger domain.Logger) *Client {
	return &Client{
		projectID:       config.GetGCPProjectID(),
		location:        config.GetGCPLocation(),
		credentialsFile: config.GetGoogleCredentialsFile(),
		logger:          logger,
	}
}

// handle returns the shared client, building it if needed. A failed build is
// not cached so the next request tries again.
func (c *Client) handle(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}
	if c.projectID == "" {
		return nil, fmt.Errorf("GCP_PROJECT_ID must be set")
	}

	var opts []option.ClientOption
	if c.credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(c.credentialsFile))
	}

	client, err := genai.NewClient(context.WithoutCancel(ctx), c.projectID, c.location, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex ai client: %w", err)
	}

	c.client = client
	c.logger.Info("Vertex AI client initialized", "project", c.projectID, "location", c.location)
	return client, nil
}

// Generate issues one model call and returns the concatenated text parts of
// the first candidate.
func (c *Client) Generate(ctx context.Context, req domain.GenerateRequest) (string, error) {
	client, err := c.handle(ctx)
	if err != nil {
		return "", err
	}

	model := client.GenerativeModel(req.Model)
	if req.Temperature != nil {
		model.SetTemperature(*req.Temperature)
	}
	if req.Schema != nil {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = ToGenaiSchema(req.Schema)
	}

	resp, err := model.GenerateContent(ctx, buildParts(req)...)
	if err != nil {
		return "", fmt.Errorf("gemini call failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", domain.ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String(), nil
}

// Close releases the underlying client if it was ever created.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

func buildParts(req domain.GenerateRequest) []genai.Part {
	var parts []genai.Part
	if doc := req.Document; doc != nil {
		mimeType := doc.MIMEType
		if mimeType == "" {
			mimeType = "application/pdf"
		}
		if doc.URI != "" {
			parts = append(parts, genai.FileData{MIMEType: mimeType, FileURI: doc.URI})
		} else if len(doc.Data) > 0 {
			parts = append(parts, genai.Blob{MIMEType: mimeType, Data: doc.Data})
		}
	}
	return append(parts, genai.Text(req.Prompt))
}

// ToGenaiSchema converts a descriptor into the Vertex response schema.
func ToGenaiSchema(d *domain.SchemaDescriptor) *genai.Schema {
	if d == nil {
		return nil
	}

	s := &genai.Schema{
		Type:        genaiType(d.Kind),
		Description: d.Description,
		Nullable:    d.Nullable,
	}
	if len(d.Properties) > 0 {
		s.Properties = make(map[string]*genai.Schema, len(d.Properties))
		for name, p := range d.Properties {
			s.Properties[name] = ToGenaiSchema(p)
		}
	}
	if len(d.Required) > 0 {
		s.Required = append([]string(nil), d.Required...)
	}
	if d.Items != nil {
		s.Items = ToGenaiSchema(d.Items)
	}
	return s
}

func genaiType(k domain.SchemaKind) genai.Type {
	switch k {
	case domain.SchemaObject:
		return genai.TypeObject
	case domain.SchemaArray:
		return genai.TypeArray
	case domain.SchemaNumber:
		return genai.TypeNumber
	case domain.SchemaBoolean:
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}
