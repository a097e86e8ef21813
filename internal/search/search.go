package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/avdeyev/storefront/internal/logging"
	"github.com/avdeyev/storefront/internal/repo"
	"github.com/avdeyev/storefront/internal/transport"
)

// Service indexes and queries products. With no ES client it degrades to
// a LIKE query against the database, so search keeps working on a bare
// SQLite deployment.
type Service struct {
	ES    *elasticsearch.Client
	Index string
	Repo  *repo.GormRepo
}

func NewService(es *elasticsearch.Client, index string, r *repo.GormRepo) *Service {
	if index == "" {
		index = "products"
	}
	return &Service{ES: es, Index: index, Repo: r}
}

type productDoc struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	HasSizes    bool    `json:"hasSizes"`
}

// IndexProduct is best-effort: failures are logged by the caller, never
// surfaced to the client.
func (s *Service) IndexProduct(ctx context.Context, view transport.ProductView) error {
	if s.ES == nil {
		return nil
	}

	doc := productDoc{
		ID:          view.ID,
		Name:        view.Name,
		Description: view.Description,
		Price:       view.Price,
		HasSizes:    view.HasSizes,
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	res, err := s.ES.Index(s.Index, bytes.NewReader(body),
		s.ES.Index.WithContext(ctx),
		s.ES.Index.WithDocumentID(view.ID),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index product: %s", res.Status())
	}
	return nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if s.ES == nil {
		return nil
	}

	res, err := s.ES.Delete(s.Index, id, s.ES.Delete.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete product doc: %s", res.Status())
	}
	return nil
}

func (s *Service) Search(ctx context.Context, q string, from, size int) (int64, []transport.ProductView, error) {
	if s.ES == nil {
		return s.searchDB(ctx, q, from, size)
	}

	total, views, err := s.searchES(ctx, q, from, size)
	if err != nil {
		logging.FromContext(ctx).Warn("search_fallback", "reason", "elasticsearch query failed", "error", err)
		return s.searchDB(ctx, q, from, size)
	}
	return total, views, nil
}

func (s *Service) searchES(ctx context.Context, q string, from, size int) (int64, []transport.ProductView, error) {
	var body bytes.Buffer
	query := map[string]any{
		"from": from,
		"size": size,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
	}
	if err := json.NewEncoder(&body).Encode(query); err != nil {
		return 0, nil, err
	}

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(s.Index),
		s.ES.Search.WithBody(&body),
	)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search error: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source productDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	views := make([]transport.ProductView, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		views[i] = transport.ProductView{
			ID:          hit.Source.ID,
			Name:        hit.Source.Name,
			Description: hit.Source.Description,
			Price:       hit.Source.Price,
			HasSizes:    hit.Source.HasSizes,
		}
	}
	return r.Hits.Total.Value, views, nil
}

func (s *Service) searchDB(ctx context.Context, q string, from, size int) (int64, []transport.ProductView, error) {
	total, items, err := s.Repo.SearchProductsLike(ctx, strings.TrimSpace(q), from, size)
	if err != nil {
		return 0, nil, err
	}
	return total, transport.NewProductViews(items), nil
}
