// Package search keeps candidate features in Elasticsearch and streams
// them back for ranking and match generation.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "match-workers/internal/common/errors"
	"match-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const defaultPageSize = 500

const candidateMapping = `{
	"mappings": {
		"properties": {
			"id":   {"type": "keyword"},
			"name": {"type": "text"},
			"features": {
				"properties": {
					"skills":               {"type": "keyword"},
					"totalExperienceYears": {"type": "float"},
					"location":             {"type": "text", "fields": {"raw": {"type": "keyword"}}},
					"education":            {"type": "object", "enabled": false},
					"preferences":          {"type": "object", "enabled": false}
				}
			}
		}
	}
}`

// CandidateIndex stores one document per candidate, keyed by candidate id.
type CandidateIndex struct {
	client   *elasticsearch.Client
	index    string
	pageSize int
}

func NewCandidateIndex(client *elasticsearch.Client, index string) *CandidateIndex {
	return &CandidateIndex{client: client, index: index, pageSize: defaultPageSize}
}

// WithPageSize sets how many candidates one search page holds.
func (ci *CandidateIndex) WithPageSize(n int) *CandidateIndex {
	if n > 0 {
		ci.pageSize = n
	}
	return ci
}

// EnsureIndex creates the index with its mapping when it is missing.
func (ci *CandidateIndex) EnsureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{ci.index}}.Do(ctx, ci.client)
	if err != nil {
		return apperrors.NewSearchError("index_exists", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = esapi.IndicesCreateRequest{
		Index: ci.index,
		Body:  strings.NewReader(candidateMapping),
	}.Do(ctx, ci.client)
	if err != nil {
		return apperrors.NewSearchError("index_create", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return apperrors.NewSearchError("index_create", responseError(res))
	}
	return nil
}

// IndexCandidate writes or replaces the candidate's document.
func (ci *CandidateIndex) IndexCandidate(ctx context.Context, c models.Candidate) error {
	body, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode candidate %s: %w", c.ID, err)
	}

	res, err := esapi.IndexRequest{
		Index:      ci.index,
		DocumentID: c.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "wait_for",
	}.Do(ctx, ci.client)
	if err != nil {
		return apperrors.NewSearchError("index_candidate", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return apperrors.NewSearchError("index_candidate", responseError(res))
	}
	return nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.Candidate `json:"_source"`
			Sort   []interface{}    `json:"sort"`
		} `json:"hits"`
	} `json:"hits"`
}

// Candidates pages through the index in id order with search_after. An
// error from fn stops the scan and is returned as is.
func (ci *CandidateIndex) Candidates(ctx context.Context, fn func(models.Candidate) error) error {
	var after []interface{}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		query := map[string]interface{}{
			"size":  ci.pageSize,
			"query": map[string]interface{}{"match_all": map[string]interface{}{}},
			"sort":  []interface{}{map[string]interface{}{"id": "asc"}},
		}
		if after != nil {
			query["search_after"] = after
		}
		body, _ := json.Marshal(query)

		res, err := esapi.SearchRequest{
			Index: []string{ci.index},
			Body:  bytes.NewReader(body),
		}.Do(ctx, ci.client)
		if err != nil {
			return apperrors.NewSearchError("search_candidates", err)
		}

		var page searchResponse
		if res.IsError() {
			err = responseError(res)
		} else {
			err = json.NewDecoder(res.Body).Decode(&page)
		}
		res.Body.Close()
		if err != nil {
			return apperrors.NewSearchError("search_candidates", err)
		}

		hits := page.Hits.Hits
		for _, h := range hits {
			if err := fn(h.Source); err != nil {
				return err
			}
		}
		if len(hits) < ci.pageSize {
			return nil
		}
		after = hits[len(hits)-1].Sort
		if len(after) == 0 {
			return apperrors.NewSearchError("search_candidates", fmt.Errorf("hit without sort values"))
		}
	}
}

func responseError(res *esapi.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	return fmt.Errorf("%s: %s", res.Status(), strings.TrimSpace(string(msg)))
}
