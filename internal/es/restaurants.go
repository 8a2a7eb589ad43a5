package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/food_ordering/internal/access"
	"github.com/Skotchmaster/food_ordering/pkg/transport"
)

const DefaultIndex = "restaurants"

const restaurantMapping = `{
  "mappings": {
    "properties": {
      "name":         {"type": "text"},
      "location":     {"type": "text"},
      "cuisine_type": {"type": "text"},
      "country":      {"type": "keyword"},
      "image_url":    {"type": "keyword", "index": false},
      "rating":       {"type": "float"}
    }
  }
}`

// RestaurantIndex keeps restaurants searchable by name, cuisine and location.
type RestaurantIndex struct {
	Client *elasticsearch.Client
	Index  string
}

func (ri *RestaurantIndex) index() string {
	if ri.Index == "" {
		return DefaultIndex
	}
	return ri.Index
}

// EnsureIndex creates the index with its mapping unless it already exists.
func (ri *RestaurantIndex) EnsureIndex(ctx context.Context) error {
	res, err := ri.Client.Indices.Exists([]string{ri.index()}, ri.Client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("es: index exists: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	res, err = ri.Client.Indices.Create(ri.index(),
		ri.Client.Indices.Create.WithContext(ctx),
		ri.Client.Indices.Create.WithBody(bytes.NewReader([]byte(restaurantMapping))),
	)
	if err != nil {
		return fmt.Errorf("es: create index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("create index", res.Status(), res.Body)
	}
	return nil
}

// IndexRestaurants upserts every restaurant under its id.
func (ri *RestaurantIndex) IndexRestaurants(ctx context.Context, items []transport.Restaurant) error {
	for _, r := range items {
		body, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("es: marshal %s: %w", r.ID, err)
		}
		res, err := ri.Client.Index(ri.index(), bytes.NewReader(body),
			ri.Client.Index.WithContext(ctx),
			ri.Client.Index.WithDocumentID(r.ID),
			ri.Client.Index.WithRefresh("true"),
		)
		if err != nil {
			return fmt.Errorf("es: index %s: %w", r.ID, err)
		}
		if res.IsError() {
			err := responseError("index "+r.ID, res.Status(), res.Body)
			res.Body.Close()
			return err
		}
		res.Body.Close()
	}
	return nil
}

// SearchRestaurants runs a fuzzy multi_match over name, cuisine and
// location. A non-empty country becomes a filter.
func (ri *RestaurantIndex) SearchRestaurants(ctx context.Context, query string, country access.Country, from, size int) (int64, []transport.Restaurant, error) {
	boolQuery := map[string]any{
		"must": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "cuisine_type", "location"},
				"fuzziness": "AUTO",
			},
		},
	}
	if country != "" {
		boolQuery["filter"] = map[string]any{"term": map[string]any{"country": country}}
	}
	body := map[string]any{
		"query": map[string]any{"bool": boolQuery},
		"from":  from,
		"size":  size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("es: encode query: %w", err)
	}

	res, err := ri.Client.Search(
		ri.Client.Search.WithContext(ctx),
		ri.Client.Search.WithIndex(ri.index()),
		ri.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("es: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, responseError("search", res.Status(), res.Body)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source transport.Restaurant `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("es: decode search: %w", err)
	}

	out := make([]transport.Restaurant, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		out[i] = hit.Source
	}
	return r.Hits.Total.Value, out, nil
}

func responseError(op, status string, body io.Reader) error {
	msg, _ := io.ReadAll(io.LimitReader(body, 512))
	return fmt.Errorf("es: %s: %s: %s", op, status, bytes.TrimSpace(msg))
}
