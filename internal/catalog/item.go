// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

// Package catalog implements the marketplace listing operations: categories,
// item search, and the authenticated item lifecycle (create, update, delete).
//
// # Architecture
//
// Items are owned by the backend. The client never mutates an Item except
// through the explicit calls in this package, and every response is
// normalized to the canonical shapes below at the rest boundary.
package catalog

import (
	"encoding/json"
	"time"

	"github.com/doatroca/troca/internal/rest"
)

// Item is the canonical marketplace listing.
type Item struct {
	ID          rest.FlexID `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	CategoryID  rest.FlexID `json:"category_id,omitempty"`
	IsDonation  bool        `json:"is_donation"`
	Condition   string      `json:"condition"`
	City        string      `json:"city,omitempty"`
	Images      []string    `json:"images,omitempty"`
	OwnerID     rest.FlexID `json:"owner_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Category is read-only reference data.
type Category struct {
	ID          rest.FlexID `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
}

// # Wire Normalization
//
// The two backend variants encode the same item differently: one sends
// category_id + is_donation, the other a nested category object + a type
// string ("donation"/"exchange"). itemWire is the union; normalize collapses
// it.

type itemWire struct {
	ID          rest.FlexID     `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	CategoryID  rest.FlexID     `json:"category_id"`
	Category    json.RawMessage `json:"category"`
	IsDonation  *bool           `json:"is_donation"`
	Type        string          `json:"type"`
	Condition   string          `json:"condition"`
	City        string          `json:"city"`
	Images      []string        `json:"images"`
	OwnerID     rest.FlexID     `json:"owner_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (wire itemWire) normalize() Item {
	item := Item{
		ID:          wire.ID,
		Title:       wire.Title,
		Description: wire.Description,
		CategoryID:  wire.CategoryID,
		Condition:   wire.Condition,
		City:        wire.City,
		Images:      wire.Images,
		OwnerID:     wire.OwnerID,
		CreatedAt:   wire.CreatedAt,
	}

	switch {
	case wire.IsDonation != nil:
		item.IsDonation = *wire.IsDonation
	case wire.Type != "":
		item.IsDonation = wire.Type == "donation"
	}

	// category may be a bare ID or a nested {id, name} object.
	if item.CategoryID == "" && len(wire.Category) > 0 && string(wire.Category) != "null" {
		var id rest.FlexID
		if err := json.Unmarshal(wire.Category, &id); err == nil {
			item.CategoryID = id
		} else {
			var nested struct {
				ID rest.FlexID `json:"id"`
			}
			if err := json.Unmarshal(wire.Category, &nested); err == nil {
				item.CategoryID = nested.ID
			}
		}
	}

	return item
}
