package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/blockandplay/explorer/internal/explorer"
	"github.com/blockandplay/explorer/pkg/pagination"
)

const (
	defaultLimit     = 20
	defaultGridLimit = 12
)

type pageQuery struct {
	Page  *int `form:"page" binding:"omitempty,gte=1"`
	Limit *int `form:"limit" binding:"omitempty,gte=1"`
}

// params applies defaults and the configured upper bound on limit.
func (q pageQuery) params(def, maxLimit int) (pagination.Params, error) {
	p := pagination.Params{Page: 1, Limit: def}
	if q.Page != nil {
		p.Page = *q.Page
	}
	if q.Limit != nil {
		p.Limit = *q.Limit
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		return p, fmt.Errorf("%w: limit must be <= %d (got %d)", explorer.ErrInvalidParameter, maxLimit, p.Limit)
	}
	return p, p.Validate()
}

type blocksQuery struct {
	pageQuery
	BlockID string `form:"blockId"`
}

type transactionsQuery struct {
	pageQuery
	TxHash string `form:"txHash"`
}

type poolsQuery struct {
	pageQuery
	Status string `form:"status" binding:"omitempty,oneof=active inactive"`
}

type penaltiesQuery struct {
	pageQuery
	Type string `form:"type" binding:"omitempty,oneof=slash jail downtime"`
}

type nfxQuery struct {
	pageQuery
	ID string `form:"id"`
}

type nftsQuery struct {
	pageQuery
	Type  string `form:"type" binding:"omitempty,oneof=tokenId owner contract"`
	Query string `form:"query" binding:"max=256"`
}

type addressQuery struct {
	Address string `form:"address" binding:"omitempty,eth_addr"`
}

type historyQuery struct {
	AssetID string `form:"assetId" binding:"required,max=128"`
}

// bindQuery binds and validates query parameters. Every failure is an
// invalid parameter.
func bindQuery(c *gin.Context, dst any) error {
	err := c.ShouldBindQuery(dst)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return fmt.Errorf("%w: %s", explorer.ErrInvalidParameter, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%w: %v", explorer.ErrInvalidParameter, err)
}

func fieldMessage(fe validator.FieldError) string {
	name := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "gte":
		return fmt.Sprintf("%s must be >= %s (got %v)", name, fe.Param(), derefValue(fe.Value()))
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got %q)", name, fe.Param(), fe.Value())
	case "eth_addr":
		return fmt.Sprintf("%s must be a 0x-prefixed 40 hex character address (got %q)", name, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", name, fe.Tag())
	}
}

func derefValue(v any) any {
	if p, ok := v.(*int); ok && p != nil {
		return *p
	}
	return v
}

func lowerFirst(s string) string {
	switch s {
	case "AssetID":
		return "assetId"
	case "":
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
