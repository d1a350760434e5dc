package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"gizmohub_back_end/internal/models"
)

const ProductsIndex = "products"

// Connect returns nil when no URL is configured.
func Connect(url, user, password string) (*elasticsearch.Client, error) {
	if url == "" {
		log.Println("⚠️ ELASTIC_URL not set, product search uses SQL")
		return nil, nil
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elastic client: %w", err)
	}

	res, err := es.Info()
	if err != nil {
		return nil, fmt.Errorf("elastic info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elastic info: %s", res.Status())
	}

	log.Println("✅ Connected to Elasticsearch")
	return es, nil
}

// ProductDocument is what gets indexed for a product.
type ProductDocument struct {
	ID             uint   `json:"product_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Specifications string `json:"specifications"`
	Category       string `json:"category,omitempty"`
	Brand          string `json:"brand,omitempty"`
	Price          string `json:"price"`
}

func NewProductDocument(p models.Product) ProductDocument {
	doc := ProductDocument{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Specifications: p.Specifications,
		Price:          p.Price.StringFixed(2),
	}
	if p.CategoryName != nil {
		doc.Category = *p.CategoryName
	}
	if p.BrandName != nil {
		doc.Brand = *p.BrandName
	}
	return doc
}

type ProductIndex struct {
	es *elasticsearch.Client
}

func NewProductIndex(es *elasticsearch.Client) *ProductIndex {
	return &ProductIndex{es: es}
}

func (i *ProductIndex) Index(ctx context.Context, p models.Product) error {
	data, err := json.Marshal(NewProductDocument(p))
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      ProductsIndex,
		DocumentID: strconv.FormatUint(uint64(p.ID), 10),
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, i.es)
	if err != nil {
		return fmt.Errorf("index product %d: %w", p.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index product %d: %s", p.ID, res.String())
	}
	return nil
}

func (i *ProductIndex) Delete(ctx context.Context, productID uint) error {
	req := esapi.DeleteRequest{
		Index:      ProductsIndex,
		DocumentID: strconv.FormatUint(uint64(productID), 10),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, i.es)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", productID, err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete product %d: %s", productID, res.String())
	}
	return nil
}

// Search returns matching product ids ordered by relevance.
func (i *ProductIndex) Search(ctx context.Context, query string, limit int) ([]uint, error) {
	var buf bytes.Buffer
	q := map[string]any{
		"size":    limit,
		"_source": []string{"product_id"},
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^3", "brand^2", "category^2", "description", "specifications"},
				"fuzziness": "AUTO",
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{ProductsIndex},
		Body:  &buf,
	}
	res, err := req.Do(ctx, i.es)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.New("search: " + res.Status())
	}

	return decodeHits(res.Body)
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source struct {
				ProductID uint `json:"product_id"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func decodeHits(body io.Reader) ([]uint, error) {
	var r searchResponse
	if err := json.NewDecoder(body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	ids := make([]uint, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		ids = append(ids, h.Source.ProductID)
	}
	return ids, nil
}
