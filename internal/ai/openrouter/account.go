package openrouter

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mitchellh/mapstructure"
)

const (
	keyPath    = "/key"
	modelsPath = "/models"
)

// Credits describes the balance of the API key in use.
type Credits struct {
	Label      string   `json:"label"`
	Limit      *float64 `json:"limit"`
	Usage      float64  `json:"usage"`
	IsFreeTier bool     `json:"is_free_tier"`
	// LimitRemaining is reported by newer API versions only.
	LimitRemaining *float64 `json:"limit_remaining"`
}

// Remaining returns the balance left under the key limit. The second value is
// false when the key has no limit.
func (c *Credits) Remaining() (float64, bool) {
	if c == nil || c.Limit == nil || *c.Limit == 0 {
		return 0, false
	}
	if c.LimitRemaining != nil {
		return *c.LimitRemaining, true
	}
	return *c.Limit - c.Usage, true
}

type Model struct {
	ID            string `mapstructure:"id"`
	Name          string `mapstructure:"name"`
	Description   string `mapstructure:"description"`
	ContextLength int    `mapstructure:"context_length"`
	Pricing       struct {
		Prompt     string `mapstructure:"prompt"`
		Completion string `mapstructure:"completion"`
	} `mapstructure:"pricing"`
	Raw map[string]any `mapstructure:"-"`
}

// Credits fetches usage and limit of the configured key.
func (c *Client) Credits(ctx context.Context) (*Credits, error) {
	ctx, cancel := withTimeout(ctx, c.MetadataTimeout)
	defer cancel()

	var response struct {
		Data *Credits `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, c.APIURL+keyPath, nil, &response); err != nil {
		return nil, fmt.Errorf("check credits: %w", err)
	}

	if response.Data == nil {
		return &Credits{}, nil
	}

	return response.Data, nil
}

// ListModels returns model descriptors. A positive limit caps the list.
func (c *Client) ListModels(ctx context.Context, limit int) ([]*Model, error) {
	ctx, cancel := withTimeout(ctx, c.MetadataTimeout)
	defer cancel()

	var response struct {
		Data []map[string]any `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, c.APIURL+modelsPath, nil, &response); err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	items := response.Data
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	models := make([]*Model, 0, len(items))
	for _, item := range items {
		var model Model
		cfg := &mapstructure.DecoderConfig{
			Result:           &model,
			WeaklyTypedInput: true,
		}
		decoder, err := mapstructure.NewDecoder(cfg)
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(item); err != nil {
			return nil, fmt.Errorf("decode model descriptor: %w", err)
		}
		model.Raw = item
		models = append(models, &model)
	}

	return models, nil
}
