// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/doatroca/troca/internal/platform/constants"
	"github.com/doatroca/troca/internal/platform/validate"
	"github.com/doatroca/troca/internal/rest"
)

// Service implements the catalogue use cases over the rest client.
type Service struct {
	client *rest.Client
	log    *slog.Logger
}

// NewService constructs a catalogue service.
func NewService(client *rest.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, log: logger}
}

// # Reference Data

// Categories fetches the read-only category list.
func (service *Service) Categories(ctx context.Context) ([]Category, error) {
	var raw json.RawMessage
	if err := service.client.Get(ctx, "/categories", nil, &raw); err != nil {
		return nil, err
	}

	var categories []Category
	if err := rest.DecodeList(raw, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// # Discovery

// Filter narrows an item listing. Zero values mean "no constraint".
type Filter struct {
	Query      string
	CategoryID string
	Condition  string
	City       string
	IsDonation *bool
	Skip       int
	Limit      int
}

// values renders the filter as backend query parameters.
func (filter Filter) values() url.Values {
	query := url.Values{}
	if filter.Query != "" {
		query.Set("q", filter.Query)
	}
	if filter.CategoryID != "" {
		query.Set("category_id", filter.CategoryID)
	}
	if filter.Condition != "" {
		query.Set("condition", filter.Condition)
	}
	if filter.City != "" {
		query.Set("city", filter.City)
	}
	if filter.IsDonation != nil {
		query.Set("is_donation", strconv.FormatBool(*filter.IsDonation))
	}
	if filter.Skip > 0 {
		query.Set("skip", strconv.Itoa(filter.Skip))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}
	return query
}

// List fetches items matching the filter, newest first.
func (service *Service) List(ctx context.Context, filter Filter) ([]Item, error) {
	var raw json.RawMessage
	if err := service.client.Get(ctx, "/items", filter.values(), &raw); err != nil {
		return nil, err
	}

	var wires []itemWire
	if err := rest.DecodeList(raw, &wires); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(wires))
	for _, wire := range wires {
		items = append(items, wire.normalize())
	}
	return items, nil
}

// Get fetches a single item. Returns [apperr.NotFound] when the ID is unknown.
func (service *Service) Get(ctx context.Context, id string) (*Item, error) {
	var raw json.RawMessage
	if err := service.client.Get(ctx, "/items/"+url.PathEscape(id), nil, &raw); err != nil {
		return nil, err
	}

	wire := itemWire{}
	if err := rest.DecodeObject(raw, &wire); err != nil {
		return nil, err
	}
	item := wire.normalize()
	return &item, nil
}

// # Item Lifecycle

// ItemInput holds the data for creating or updating a listing.
type ItemInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	CategoryID  string `json:"category_id,omitempty"`
	IsDonation  bool   `json:"is_donation"`
	Condition   string `json:"condition"`
	City        string `json:"city,omitempty"`
}

// validateInput is the pre-submit check shared by Create and Update. A failed
// check means no network call is issued and the caller's input is untouched.
func validateInput(input *ItemInput) error {
	if input.Condition == "" {
		input.Condition = constants.ConditionUsed
	}

	v := &validate.Validator{}
	v.Required("title", input.Title)
	v.MaxLen("title", input.Title, 200)
	v.OneOf("condition", input.Condition, constants.Conditions...)
	return v.Err()
}

// Create publishes a new listing. Requires an authenticated session.
func (service *Service) Create(ctx context.Context, input ItemInput) (*Item, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := service.client.Post(ctx, "/items", input, &raw); err != nil {
		return nil, err
	}

	wire := itemWire{}
	if err := rest.DecodeObject(raw, &wire); err != nil {
		return nil, err
	}

	item := wire.normalize()
	service.log.Info("item_created", slog.String("id", item.ID.String()), slog.String("title", item.Title))
	return &item, nil
}

// Update replaces a listing's fields. Only the owner may update; a foreign
// item yields [apperr.Forbidden] from the backend.
func (service *Service) Update(ctx context.Context, id string, input ItemInput) (*Item, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := service.client.Put(ctx, "/items/"+url.PathEscape(id), input, &raw); err != nil {
		return nil, err
	}

	wire := itemWire{}
	if err := rest.DecodeObject(raw, &wire); err != nil {
		return nil, err
	}

	item := wire.normalize()
	service.log.Info("item_updated", slog.String("id", item.ID.String()))
	return &item, nil
}

// Delete removes a listing. Only the owner may delete.
func (service *Service) Delete(ctx context.Context, id string) error {
	if err := service.client.Delete(ctx, "/items/"+url.PathEscape(id)); err != nil {
		return err
	}
	service.log.Info("item_deleted", slog.String("id", id))
	return nil
}
