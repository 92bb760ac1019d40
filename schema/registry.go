package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const defaultRequestTimeout = 30 * time.Second

// Field describes one column of a topic's schema.
type Field struct {
	// Name is the field name as stored in the database.
	Name string

	// Description is the schema's free-text description, if any.
	Description string

	// Units is the raw unit string from the schema, empty when absent.
	Units string

	// Unit is the canonical form of Units.
	Unit Unit

	// IsArray reports whether the field is declared as an Avro array.
	// Array fields appear in the database as numbered packed columns.
	IsArray bool
}

// Schema is a parsed topic schema from the registry.
type Schema struct {
	Subject string
	Version int
	ID      int
	Fields  []Field
}

// Client fetches and parses topic schemas from a Confluent-style schema
// registry. Responses are cached by subject, so repeated lookups are
// cheap.
//
// Thread Safety: all methods are safe for concurrent use.
type Client struct {
	url        string
	httpClient *http.Client

	mu       sync.Mutex
	subjects map[string]*Schema
}

// NewClient creates a registry client for the given base URL.
func NewClient(registryURL string) *Client {
	return &Client{
		url:        strings.TrimRight(registryURL, "/"),
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		subjects:   map[string]*Schema{},
	}
}

// TopicSchema returns the parsed schema for a topic. The registry subject
// for a topic's value schema is "{topic}-value".
func (c *Client) TopicSchema(ctx context.Context, topic string) (*Schema, error) {
	return c.SchemaBySubject(ctx, topic+"-value")
}

// SchemaBySubject returns the latest schema registered under a subject.
func (c *Client) SchemaBySubject(ctx context.Context, subject string) (*Schema, error) {
	c.mu.Lock()
	cached, ok := c.subjects[subject]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	url := fmt.Sprintf("%s/subjects/%s/versions/latest", c.url, subject)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegistry, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegistry, err)
	}
	defer resp.Body.Close()

	const maxResponseSize = 10 << 20 // 10 MB
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrRegistry, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d from %s", ErrRegistry, resp.StatusCode, url)
	}

	parsed, err := parseRegistryResponse(body)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.subjects[subject] = parsed
	c.mu.Unlock()
	return parsed, nil
}

// registryResponse is the registry's envelope: the Avro schema document is
// a JSON string inside the JSON response.
type registryResponse struct {
	Subject string `json:"subject"`
	Version int    `json:"version"`
	ID      int    `json:"id"`
	Schema  string `json:"schema"`
}

// avroField is the subset of an Avro record field the client consumes.
// Type stays raw: it is a string for scalars and an object for arrays.
type avroField struct {
	Name        string          `json:"name"`
	Type        json.RawMessage `json:"type"`
	Description string          `json:"description"`
	Units       string          `json:"units"`
}

// parseRegistryResponse unpacks the registry envelope and the embedded
// Avro record schema into per-field rows.
func parseRegistryResponse(body []byte) (*Schema, error) {
	var envelope registryResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: envelope: %w", ErrBadSchema, err)
	}

	var record struct {
		Fields []avroField `json:"fields"`
	}
	if err := json.Unmarshal([]byte(envelope.Schema), &record); err != nil {
		return nil, fmt.Errorf("%w: schema for %s: %w", ErrBadSchema, envelope.Subject, err)
	}

	fields := make([]Field, 0, len(record.Fields))
	for _, f := range record.Fields {
		field := Field{
			Name:        f.Name,
			Description: f.Description,
			Units:       f.Units,
			IsArray:     isArrayType(f.Type),
		}
		if f.Units != "" {
			unit, err := ParseUnit(f.Units)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Name, err)
			}
			field.Unit = unit
		}
		fields = append(fields, field)
	}
	return &Schema{
		Subject: envelope.Subject,
		Version: envelope.Version,
		ID:      envelope.ID,
		Fields:  fields,
	}, nil
}

// isArrayType reports whether an Avro type declaration is an array
// (an object with "type": "array").
func isArrayType(raw json.RawMessage) bool {
	var typed struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &typed); err != nil {
		return false
	}
	return typed.Type == "array"
}
