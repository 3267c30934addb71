// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

package mockapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// This file renders responses in whichever dialect the server speaks. Both
// real backends agree on exactly one thing — errors are {"detail": msg} —
// and on nothing else.

// writeJSON writes a JSON response with the given status code.
func (server *Server) writeJSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// writeError writes the shared {"detail": msg} error envelope.
func (server *Server) writeError(writer http.ResponseWriter, statusCode int, detail string) {
	server.writeJSON(writer, statusCode, map[string]string{"detail": detail})
}

// writeList wraps a rendered collection per dialect: a bare array for the
// bearer dialect, a {count, results} page for simplejwt.
func (server *Server) writeList(writer http.ResponseWriter, rendered []map[string]any) {
	if server.dialect == DialectSimpleJWT {
		server.writeJSON(writer, http.StatusOK, map[string]any{
			"count":   len(rendered),
			"results": rendered,
		})
		return
	}
	server.writeJSON(writer, http.StatusOK, rendered)
}

// renderID emits integer IDs for the bearer dialect and strings otherwise.
func (server *Server) renderID(id string) any {
	if id == "" {
		return nil
	}
	if server.dialect == DialectBearer {
		if n, err := strconv.ParseInt(id, 10, 64); err == nil {
			return n
		}
	}
	return id
}

func (server *Server) renderUser(user *account) map[string]any {
	out := map[string]any{
		"id":    server.renderID(user.ID),
		"email": user.Email,
	}
	if user.Name != "" {
		out["name"] = user.Name
	}
	if user.City != "" {
		out["city"] = user.City
	}
	return out
}

func (server *Server) renderCategory(cat *category) map[string]any {
	return map[string]any{
		"id":          server.renderID(cat.ID),
		"name":        cat.Name,
		"description": cat.Description,
	}
}

// renderItem emits the dialect's item shape. The bearer dialect uses
// category_id + is_donation; simplejwt nests the category and encodes the
// listing kind as a type string.
func (server *Server) renderItem(listing *item) map[string]any {
	out := map[string]any{
		"id":          server.renderID(listing.ID),
		"title":       listing.Title,
		"description": listing.Description,
		"condition":   listing.Condition,
		"city":        listing.City,
		"owner_id":    server.renderID(listing.OwnerID),
		"created_at":  listing.CreatedAt.UTC().Format(time.RFC3339Nano),
	}

	if server.dialect == DialectSimpleJWT {
		if listing.IsDonation {
			out["type"] = "donation"
		} else {
			out["type"] = "exchange"
		}
		out["images"] = listing.Images
		if listing.CategoryID != "" {
			var name string
			for _, cat := range server.data.listCategories() {
				if cat.ID == listing.CategoryID {
					name = cat.Name
					break
				}
			}
			out["category"] = map[string]any{
				"id":   server.renderID(listing.CategoryID),
				"name": name,
			}
		} else {
			out["category"] = nil
		}
		return out
	}

	out["is_donation"] = listing.IsDonation
	out["category_id"] = server.renderID(listing.CategoryID)
	return out
}
