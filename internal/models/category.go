package models

type Category struct {
	ID          int64  `json:"id"`
	Slug        string `json:"slug,omitempty"`
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
	ParentID    *int64 `json:"parent_id,omitempty"`
	IsActive    bool   `json:"is_active"`
}
