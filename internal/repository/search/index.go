// Package search keeps an Elasticsearch index of the portfolio for filtered property lookup.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "esg-retrofit-workers/internal/common/errors"
	"esg-retrofit-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const (
	DefaultSize = 20
	MaxSize     = 100
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"propertyId":         {"type": "keyword"},
			"name":               {"type": "text", "fields": {"raw": {"type": "keyword"}}},
			"type":               {"type": "keyword"},
			"city":               {"type": "keyword"},
			"certification":      {"type": "keyword"},
			"certificationLevel": {"type": "keyword"},
			"sizeSqm":            {"type": "double"},
			"yearBuilt":          {"type": "integer"},
			"scores": {
				"properties": {
					"environmentalScore": {"type": "double"},
					"socialScore":        {"type": "double"},
					"governanceScore":    {"type": "double"},
					"overallScore":       {"type": "double"}
				}
			}
		}
	}
}`

// PropertyIndex reads and writes property documents in one index.
type PropertyIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewPropertyIndex(client *elasticsearch.Client, index string) *PropertyIndex {
	return &PropertyIndex{client: client, index: index}
}

func (p *PropertyIndex) Index() string { return p.index }

// Query filters the portfolio. Zero values mean no filter.
type Query struct {
	Keywords        string   `json:"keywords,omitempty"`
	City            string   `json:"city,omitempty"`
	Type            string   `json:"type,omitempty"`
	Certification   string   `json:"certification,omitempty"`
	MinOverallScore *float64 `json:"minOverallScore,omitempty"`
	From            int      `json:"from,omitempty"`
	Size            int      `json:"size,omitempty"`
}

type Result struct {
	Properties []models.Property `json:"properties"`
	TotalHits  int64             `json:"totalHits"`
	Took       int               `json:"took"`
}

// EnsureIndex creates the index with its mapping when it does not exist.
func (p *PropertyIndex) EnsureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{p.index}}.Do(ctx, p.client)
	if err != nil {
		return p.wrap(err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return apperrors.NewSearchQueryFailedError(fmt.Errorf("index exists check: %s", res.Status()))
	}

	res, err = esapi.IndicesCreateRequest{
		Index: p.index,
		Body:  strings.NewReader(indexMapping),
	}.Do(ctx, p.client)
	if err != nil {
		return p.wrap(err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return apperrors.NewSearchQueryFailedError(fmt.Errorf("create index %s: %s", p.index, res.String()))
	}
	return nil
}

// IndexProperties bulk-indexes properties keyed by property id.
func (p *PropertyIndex) IndexProperties(ctx context.Context, properties []models.Property) error {
	if len(properties) == 0 {
		return nil
	}

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	for _, prop := range properties {
		action := map[string]interface{}{"index": map[string]interface{}{"_id": prop.ID}}
		if err := enc.Encode(action); err != nil {
			return fmt.Errorf("encode bulk action: %w", err)
		}
		if err := enc.Encode(prop); err != nil {
			return fmt.Errorf("encode property %s: %w", prop.ID, err)
		}
	}

	res, err := esapi.BulkRequest{
		Index:   p.index,
		Body:    &body,
		Refresh: "wait_for",
	}.Do(ctx, p.client)
	if err != nil {
		return p.wrap(err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return apperrors.NewSearchQueryFailedError(fmt.Errorf("bulk index: %s", res.String()))
	}

	var bulk struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&bulk); err != nil {
		return apperrors.NewSearchQueryFailedError(fmt.Errorf("decode bulk response: %w", err))
	}
	if bulk.Errors {
		return apperrors.NewSearchQueryFailedError(fmt.Errorf("bulk index into %s reported item errors", p.index))
	}
	return nil
}

// Search runs a filtered query sorted by overall score, best first.
func (p *PropertyIndex) Search(ctx context.Context, q Query) (*Result, error) {
	from, size := q.From, q.Size
	if from < 0 {
		from = 0
	}
	if size <= 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}

	body, err := json.Marshal(buildQuery(q))
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := esapi.SearchRequest{
		Index: []string{p.index},
		Body:  bytes.NewReader(body),
		From:  &from,
		Size:  &size,
	}.Do(ctx, p.client)
	if err != nil {
		return nil, p.wrap(err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, apperrors.NewSearchQueryFailedError(fmt.Errorf("search %s: %s", p.index, res.String()))
	}

	var raw struct {
		Took int `json:"took"`
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Property `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return nil, apperrors.NewSearchQueryFailedError(fmt.Errorf("decode search response: %w", err))
	}

	result := &Result{
		Properties: make([]models.Property, 0, len(raw.Hits.Hits)),
		TotalHits:  raw.Hits.Total.Value,
		Took:       raw.Took,
	}
	// indexed scores may predate a metric update
	for _, hit := range raw.Hits.Hits {
		property := hit.Source
		if err := property.RefreshScores(); err != nil {
			return nil, apperrors.NewSearchQueryFailedError(fmt.Errorf("rescore %s: %w", property.ID, err))
		}
		result.Properties = append(result.Properties, property)
	}
	return result, nil
}

func buildQuery(q Query) map[string]interface{} {
	must := []interface{}{}
	filter := []interface{}{}

	if q.Keywords != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q.Keywords,
				"fields": []string{"name^3", "city", "type"},
				"type":   "best_fields",
			},
		})
	}
	for field, value := range map[string]string{
		"city":          q.City,
		"type":          q.Type,
		"certification": q.Certification,
	} {
		if value != "" {
			filter = append(filter, map[string]interface{}{
				"term": map[string]interface{}{field: value},
			})
		}
	}
	if q.MinOverallScore != nil {
		filter = append(filter, map[string]interface{}{
			"range": map[string]interface{}{
				"scores.overallScore": map[string]interface{}{"gte": *q.MinOverallScore},
			},
		})
	}
	if len(must) == 0 {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		},
		"sort": []interface{}{
			map[string]interface{}{"scores.overallScore": map[string]interface{}{"order": "desc"}},
			map[string]interface{}{"propertyId": map[string]interface{}{"order": "asc"}},
		},
	}
}

func (p *PropertyIndex) wrap(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewSearchTimeoutError(p.index)
	}
	return apperrors.NewSearchQueryFailedError(err)
}
