// Package elastic implements search.DocumentStore on Elasticsearch.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/search"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

type Store struct {
	es *elasticsearch.Client
}

func Connect(url, apiKey string) (*Store, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		APIKey:    apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return &Store{es: es}, nil
}

func (s *Store) DeleteIndex(ctx context.Context, index string) error {
	res, err := s.es.Indices.Delete(
		[]string{index},
		s.es.Indices.Delete.WithContext(ctx),
		s.es.Indices.Delete.WithIgnoreUnavailable(true),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	// a missing index answers 404 on some versions even with ignore_unavailable
	if res.StatusCode == 404 {
		return nil
	}
	return responseError(res)
}

type bulkMeta struct {
	Index string `json:"_index"`
	ID    string `json:"_id"`
}

func (s *Store) Bulk(ctx context.Context, ops []search.BulkOp) error {
	if len(ops) == 0 {
		return nil
	}
	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	for _, op := range ops {
		meta := map[string]bulkMeta{string(op.Action): {Index: op.Index, ID: op.ID}}
		if err := enc.Encode(meta); err != nil {
			return err
		}
		if op.Action == search.ActionIndex {
			if err := enc.Encode(op.Doc); err != nil {
				return err
			}
		}
	}

	res, err := s.es.Bulk(
		&body,
		s.es.Bulk.WithContext(ctx),
		s.es.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if err := responseError(res); err != nil {
		return err
	}

	var out struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			Status int `json:"status"`
			Error  *struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode bulk response: %w", err)
	}
	if !out.Errors {
		return nil
	}
	for _, item := range out.Items {
		for action, r := range item {
			if r.Error != nil {
				return fmt.Errorf("bulk %s failed: %s: %s", action, r.Error.Type, r.Error.Reason)
			}
		}
	}
	return fmt.Errorf("bulk request reported errors")
}

func (s *Store) Search(ctx context.Context, index, query string, from, size int) (search.Hits, error) {
	body, err := json.Marshal(map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":   query,
				"fields":  []string{"*"},
				"lenient": true,
			},
		},
		"_source": false,
	})
	if err != nil {
		return search.Hits{}, err
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(index),
		s.es.Search.WithBody(bytes.NewReader(body)),
		s.es.Search.WithFrom(from),
		s.es.Search.WithSize(size),
		s.es.Search.WithIgnoreUnavailable(true),
		s.es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return search.Hits{}, err
	}
	defer res.Body.Close()
	if err := responseError(res); err != nil {
		return search.Hits{}, err
	}

	var out struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return search.Hits{}, fmt.Errorf("decode search response: %w", err)
	}

	hits := search.Hits{IDs: make([]int64, 0, len(out.Hits.Hits)), Total: out.Hits.Total.Value}
	for _, h := range out.Hits.Hits {
		id, err := strconv.ParseInt(h.ID, 10, 64)
		if err != nil {
			continue
		}
		hits.IDs = append(hits.IDs, id)
	}
	return hits, nil
}

func responseError(res *esapi.Response) error {
	if !res.IsError() {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	return fmt.Errorf("elasticsearch %s: %s", res.Status(), bytes.TrimSpace(msg))
}
