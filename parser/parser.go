// Package parser decodes API response envelopes and checks the records they
// carry before anything downstream trusts them.
package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aluiziolira/go-live-dashboard/models"
)

type pageEnvelope[T any] struct {
	Data       []T                    `json:"data"`
	Pagination *models.PaginationInfo `json:"pagination"`
}

type dataEnvelope[T any] struct {
	Data *T `json:"data"`
}

type listEnvelope[T any] struct {
	Data []T `json:"data"`
}

type messageEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// DecodePage decodes a {data, pagination} list body and runs validate on
// every item.
func DecodePage[T any](body []byte, validate func(T) error) (*models.PageResult[T], error) {
	var env pageEnvelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	if env.Data == nil {
		return nil, fmt.Errorf("page missing data")
	}
	if env.Pagination == nil {
		return nil, fmt.Errorf("page missing pagination")
	}
	if err := ValidatePagination(*env.Pagination); err != nil {
		return nil, err
	}
	if err := validateAll(env.Data, validate); err != nil {
		return nil, err
	}
	return &models.PageResult[T]{
		Items:      env.Data,
		Pagination: *env.Pagination,
	}, nil
}

// DecodeList decodes a {data: [...]} body without pagination.
func DecodeList[T any](body []byte, validate func(T) error) ([]T, error) {
	var env listEnvelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	if env.Data == nil {
		return nil, fmt.Errorf("list missing data")
	}
	if err := validateAll(env.Data, validate); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// DecodeData decodes a {data: {...}} body.
func DecodeData[T any](body []byte) (*T, error) {
	var env dataEnvelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}
	if env.Data == nil {
		return nil, fmt.Errorf("response missing data")
	}
	return env.Data, nil
}

// DecodeMessage returns the server supplied message of an error body, or ""
// when the body carries none.
func DecodeMessage(body []byte) string {
	var env messageEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(env.Message); msg != "" {
		return msg
	}
	return strings.TrimSpace(env.Error)
}

func validateAll[T any](items []T, validate func(T) error) error {
	if validate == nil {
		return nil
	}
	for i, item := range items {
		if err := validate(item); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

// ValidatePagination rejects pagination blocks that break their invariants.
func ValidatePagination(p models.PaginationInfo) error {
	if !p.Valid() {
		return fmt.Errorf("invalid pagination %+v", p)
	}
	return nil
}

// ValidateArticle ensures the article carries identity and sane counters.
func ValidateArticle(a models.Article) error {
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("article missing id")
	}
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("article %s missing title", a.ID)
	}
	if a.Score < 0 {
		return fmt.Errorf("article %s has negative score", a.ID)
	}
	if a.Comments < 0 {
		return fmt.Errorf("article %s has negative comments", a.ID)
	}
	return nil
}

// ValidateCrypto ensures the snapshot carries identity and sane figures.
func ValidateCrypto(c models.CryptoSnapshot) error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("crypto missing id")
	}
	if strings.TrimSpace(c.Symbol) == "" {
		return fmt.Errorf("crypto %s missing symbol", c.ID)
	}
	if c.Price < 0 {
		return fmt.Errorf("crypto %s has negative price", c.ID)
	}
	if c.MarketCap < 0 {
		return fmt.Errorf("crypto %s has negative market cap", c.ID)
	}
	if c.Volume24h < 0 {
		return fmt.Errorf("crypto %s has negative volume", c.ID)
	}
	if c.Rank < 1 {
		return fmt.Errorf("crypto %s has rank %d", c.ID, c.Rank)
	}
	return nil
}

// NormalizeSymbol trims and upper-cases a ticker symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
