package helper

import (
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const DefaultPage = 1

type Options struct {
	DefaultPerPage int
	MaxPerPage     int
}

// ===== Preset =====
var (
	DefaultOpts = Options{DefaultPerPage: 25, MaxPerPage: 200}
	AdminOpts   = Options{DefaultPerPage: 50, MaxPerPage: 500}
)

type Params struct {
	Page      int
	PerPage   int
	SortBy    string
	SortOrder string // asc|desc
}

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// ParseFiber membaca page/per_page/sort_by/sort_order dari query string.
func ParseFiber(c *fiber.Ctx, defaultSortBy, defaultSortOrder string) Params {
	return ParseFiberWith(c, defaultSortBy, defaultSortOrder, DefaultOpts)
}

func ParseFiberWith(c *fiber.Ctx, defaultSortBy, defaultSortOrder string, opt Options) Params {
	page := atoiDefault(c.Query("page"), DefaultPage)
	if page < 1 {
		page = DefaultPage
	}

	per := atoiDefault(firstNonEmpty(c.Query("per_page"), c.Query("limit")), opt.DefaultPerPage)
	if per < 1 {
		per = opt.DefaultPerPage
	}
	if opt.MaxPerPage > 0 && per > opt.MaxPerPage {
		per = opt.MaxPerPage
	}

	sortBy := strings.TrimSpace(c.Query("sort_by"))
	if sortBy == "" {
		sortBy = defaultSortBy
	}
	sortOrder := strings.ToLower(strings.TrimSpace(c.Query("sort_order")))
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = defaultSortOrder
	}

	return Params{Page: page, PerPage: per, SortBy: sortBy, SortOrder: sortOrder}
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// OrderClause dibatasi whitelist kolom supaya sort_by tidak bisa injection.
func (p Params) OrderClause(allowed map[string]string, fallback string) string {
	col, ok := allowed[p.SortBy]
	if !ok {
		col = fallback
	}
	if p.SortOrder == "asc" {
		return col + " ASC"
	}
	return col + " DESC"
}

func BuildPagination(p Params, total int64) Pagination {
	pages := int(math.Ceil(float64(total) / float64(p.PerPage)))
	if pages < 1 {
		pages = 1
	}
	return Pagination{
		Page:       p.Page,
		PerPage:    p.PerPage,
		Total:      total,
		TotalPages: pages,
		HasNext:    p.Page < pages,
		HasPrev:    p.Page > 1,
	}
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
