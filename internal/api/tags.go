package api

import (
	"context"
	"encoding/json"
)

// GenerateTags calls GET /generate-tags and returns the raw `tags` array.
// A missing or non-array field yields an empty slice.
func (c *Client) GenerateTags(ctx context.Context) ([]any, error) {
	data, err := c.get(ctx, c.tagURL+"/generate-tags")
	if err != nil {
		return nil, err
	}
	resp, err := decodeJSON[generateTagsResponse](data)
	if err != nil {
		return nil, err
	}
	return rawArray(resp.Tags), nil
}

// SetTags posts the final scan tags to POST /set-tags. The body is ignored.
func (c *Client) SetTags(ctx context.Context, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	_, err := c.post(ctx, c.tagURL+"/set-tags", SetTagsInput{Tags: tags})
	return err
}

// ExtractKeywords asks the tag service to pull keywords out of a description.
func (c *Client) ExtractKeywords(ctx context.Context, description string) ([]string, error) {
	data, err := c.post(ctx, c.tagURL+"/extract-keywords", ExtractKeywordsInput{Description: description})
	if err != nil {
		return nil, err
	}
	resp, err := decodeJSON[extractKeywordsResponse](data)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0)
	for _, item := range rawArray(resp.Keywords) {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// Health checks that the tag service answers.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.GenerateTags(ctx)
	return err
}

func rawArray(raw json.RawMessage) []any {
	if len(raw) == 0 {
		return []any{}
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return []any{}
	}
	if items == nil {
		return []any{}
	}
	return items
}
