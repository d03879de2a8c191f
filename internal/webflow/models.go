package webflow

import (
	"time"

	"story_sync/internal/domain"
)

// Item is a CMS collection item as returned by the Items API.
type Item struct {
	ID            string           `json:"id"`
	IsDraft       bool             `json:"isDraft"`
	IsArchived    bool             `json:"isArchived"`
	LastPublished *time.Time       `json:"lastPublished"`
	LastUpdated   *time.Time       `json:"lastUpdated"`
	FieldData     domain.FieldData `json:"fieldData"`
}

type itemRequest struct {
	FieldData domain.FieldData `json:"fieldData"`
}

type listResponse struct {
	Items      []Item     `json:"items"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
