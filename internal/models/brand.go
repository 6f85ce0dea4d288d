package models

import (
	"strconv"
	"strings"
)

// Brand est la marque telle qu'affichée par la vitrine.
type Brand struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Logo            string   `json:"logo"`
	Website         string   `json:"website,omitempty"`
	Country         string   `json:"country"`
	Founded         string   `json:"founded"`
	Philosophy      string   `json:"philosophy"`
	Highlights      []string `json:"highlights"`
	FullDescription string   `json:"fullDescription"`
	ProductsCount   int      `json:"productsCount"`
}

// ApiBrand est la marque telle que l'API la renvoie.
type ApiBrand struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Website         *string  `json:"website"`
	LogoURL         *string  `json:"logo_url"`
	IsActive        bool     `json:"is_active"`
	FullDescription string   `json:"full_description,omitempty"`
	Country         string   `json:"country,omitempty"`
	Founded         string   `json:"founded,omitempty"`
	Philosophy      string   `json:"philosophy,omitempty"`
	Highlights      []string `json:"highlights,omitempty"`
	ProductsCount   string   `json:"productsCount,omitempty"`
}

// BrandBrief : GET /brands/brief
type BrandBrief struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// Valeurs affichées quand l'API ne renseigne pas la fiche marque.
const (
	DefaultBrandLogo    = "/placeholder.svg"
	DefaultBrandCountry = "Южная Корея"
	DefaultBrandFounded = "2010"
)

var DefaultBrandHighlights = []string{"Натуральные ингредиенты", "Высокое качество"}

// ToBrand applique les valeurs par défaut de la vitrine.
func (b ApiBrand) ToBrand() Brand {
	out := Brand{
		ID:              strconv.FormatInt(b.ID, 10),
		Name:            b.Name,
		Description:     b.Description,
		Logo:            DefaultBrandLogo,
		Country:         b.Country,
		Founded:         b.Founded,
		Philosophy:      b.Philosophy,
		Highlights:      b.Highlights,
		FullDescription: b.FullDescription,
	}
	if b.LogoURL != nil && *b.LogoURL != "" {
		out.Logo = *b.LogoURL
	}
	if b.Website != nil {
		out.Website = *b.Website
	}
	if out.Country == "" {
		out.Country = DefaultBrandCountry
	}
	if out.Founded == "" {
		out.Founded = DefaultBrandFounded
	}
	if out.Philosophy == "" {
		out.Philosophy = b.Description
	}
	if len(out.Highlights) == 0 {
		out.Highlights = append([]string(nil), DefaultBrandHighlights...)
	}
	if out.FullDescription == "" {
		out.FullDescription = b.Description
	}
	if n, err := strconv.Atoi(b.ProductsCount); err == nil {
		out.ProductsCount = n
	}
	return out
}

// Slug : nom en minuscules, espaces remplacés par des tirets.
func (b Brand) Slug() string {
	return strings.Join(strings.Fields(strings.ToLower(b.Name)), "-")
}
