package dto

import "github.com/SscSPs/admission_workflow_app/internal/core/rejection"

// RejectionCategoryResponse lists the reasons of one category.
type RejectionCategoryResponse struct {
	Category rejection.Category `json:"category"`
	Title    string             `json:"title"`
	Reasons  []rejection.Entry  `json:"reasons"`
}

// RejectionCatalogResponse is the whole catalog grouped by category.
type RejectionCatalogResponse struct {
	Version    string                      `json:"version"`
	Categories []RejectionCategoryResponse `json:"categories"`
}

// ToRejectionCatalogResponse builds the grouped catalog view.
func ToRejectionCatalogResponse() RejectionCatalogResponse {
	cats := rejection.Categories()
	out := RejectionCatalogResponse{Version: rejection.CatalogVersion, Categories: make([]RejectionCategoryResponse, len(cats))}
	index := make(map[rejection.Category]int, len(cats))
	for i, c := range cats {
		out.Categories[i] = RejectionCategoryResponse{Category: c, Title: c.Title(), Reasons: []rejection.Entry{}}
		index[c] = i
	}
	for _, e := range rejection.All() {
		i := index[e.Category]
		out.Categories[i].Reasons = append(out.Categories[i].Reasons, e)
	}
	return out
}
