package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"honnylove_storefront/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

// SearchIndex est l'index de recherche plein texte des produits.
type SearchIndex interface {
	Search(ctx context.Context, query string, limit int) ([]models.Product, error)
	IndexProducts(ctx context.Context, products []models.Product) (int, error)
}

// ElasticIndex implémente SearchIndex sur Elasticsearch.
type ElasticIndex struct {
	client *elasticsearch.Client
	index  string
	logger *zap.Logger
}

func NewElasticIndex(client *elasticsearch.Client, index string, logger *zap.Logger) *ElasticIndex {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ElasticIndex{client: client, index: index, logger: logger}
}

//
// --- INDEXATION DANS ELASTICSEARCH ---
//

// IndexProducts indexe les produits un par un et renvoie le nombre de succès.
// L'index est rafraîchi une seule fois à la fin.
func (e *ElasticIndex) IndexProducts(ctx context.Context, products []models.Product) (int, error) {
	indexed := 0
	for _, p := range products {
		data, err := json.Marshal(p)
		if err != nil {
			return indexed, err
		}

		req := esapi.IndexRequest{
			Index:      e.index,
			DocumentID: p.ID,
			Body:       bytes.NewReader(data),
		}
		res, err := req.Do(ctx, e.client)
		if err != nil {
			return indexed, fmt.Errorf("erreur envoi Elastic: %w", err)
		}
		if res.IsError() {
			e.logger.Warn("⚠️ Elastic a refusé le produit", zap.String("product", p.Name), zap.String("status", res.Status()))
		} else {
			indexed++
		}
		res.Body.Close()
	}

	refresh := esapi.IndicesRefreshRequest{Index: []string{e.index}}
	res, err := refresh.Do(ctx, e.client)
	if err != nil {
		return indexed, fmt.Errorf("erreur rafraîchissement index: %w", err)
	}
	res.Body.Close()

	e.logger.Info("✅ Produits indexés dans Elasticsearch", zap.Int("count", indexed), zap.String("index", e.index))
	return indexed, nil
}

//
// --- RECHERCHE DANS ELASTICSEARCH ---
//

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.Product `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search cherche par nom, marque, description et catégorie.
func (e *ElasticIndex) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	var buf bytes.Buffer
	q := map[string]any{
		"size": limit,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^3", "brand^2", "description", "category"},
				"fuzziness": "AUTO",
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("erreur encodage requête: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{e.index},
		Body:  &buf,
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return nil, fmt.Errorf("erreur requête Elastic: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		e.logger.Warn("❌ Elasticsearch erreur", zap.String("status", res.Status()))
		return nil, errors.New("index non trouvé ou vide")
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("erreur décodage JSON: %w", err)
	}

	results := make([]models.Product, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		results = append(results, hit.Source)
	}
	return results, nil
}
