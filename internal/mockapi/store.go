// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

package mockapi

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/doatroca/troca/pkg/fold"
	"github.com/doatroca/troca/pkg/uuidv7"
)

// account is a registered user of the stub backend.
type account struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	City         string
	CreatedAt    time.Time
}

// category is read-only reference data.
type category struct {
	ID          string
	Name        string
	Description string
}

// item is a marketplace listing.
type item struct {
	ID          string
	Title       string
	Description string
	IsDonation  bool
	Condition   string
	City        string
	CategoryID  string
	OwnerID     string
	Images      []string
	CreatedAt   time.Time
}

// itemPatch carries the updatable fields of an item.
type itemPatch struct {
	Title       string
	Description string
	IsDonation  bool
	Condition   string
	City        string
	CategoryID  string
}

// dataStore is the in-memory state of the stub backend.
//
// # Scope
//
// This deliberately stays a pile of maps behind one mutex: the stub exists to
// exercise the client's wire contract, not to be a database.
type dataStore struct {
	mu sync.RWMutex

	// useUUID switches resource IDs between the integer sequence of one API
	// dialect and the UUIDv7 strings of the other.
	useUUID bool
	nextID  int64

	users  map[string]*account
	emails map[string]string // email -> user ID
	cats   []*category
	items  []*item
}

func newDataStore(useUUID bool) *dataStore {
	return &dataStore{
		useUUID: useUUID,
		nextID:  1,
		users:   map[string]*account{},
		emails:  map[string]string{},
	}
}

// newID must be called with the write lock held.
func (store *dataStore) newID() string {
	if store.useUUID {
		return uuidv7.New()
	}
	id := strconv.FormatInt(store.nextID, 10)
	store.nextID++
	return id
}

// # Accounts

// createUser registers an account. Returns false when the email is taken.
func (store *dataStore) createUser(email, passwordHash, name, city string) (*account, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, exists := store.emails[email]; exists {
		return nil, false
	}

	user := &account{
		ID:           store.newID(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		City:         city,
		CreatedAt:    time.Now(),
	}
	store.users[user.ID] = user
	store.emails[email] = user.ID
	return user, true
}

func (store *dataStore) userByEmail(email string) *account {
	store.mu.RLock()
	defer store.mu.RUnlock()
	id, ok := store.emails[email]
	if !ok {
		return nil
	}
	return store.users[id]
}

func (store *dataStore) userByID(id string) *account {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.users[id]
}

// # Categories

func (store *dataStore) addCategory(name, description string) *category {
	store.mu.Lock()
	defer store.mu.Unlock()

	cat := &category{ID: store.newID(), Name: name, Description: description}
	store.cats = append(store.cats, cat)
	return cat
}

func (store *dataStore) listCategories() []*category {
	store.mu.RLock()
	defer store.mu.RUnlock()

	out := make([]*category, len(store.cats))
	copy(out, store.cats)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// # Items

func (store *dataStore) createItem(ownerID string, patch itemPatch) *item {
	store.mu.Lock()
	defer store.mu.Unlock()

	created := &item{
		ID:          store.newID(),
		Title:       patch.Title,
		Description: patch.Description,
		IsDonation:  patch.IsDonation,
		Condition:   patch.Condition,
		City:        patch.City,
		CategoryID:  patch.CategoryID,
		OwnerID:     ownerID,
		CreatedAt:   time.Now(),
	}
	store.items = append(store.items, created)
	return created
}

func (store *dataStore) getItem(id string) *item {
	store.mu.RLock()
	defer store.mu.RUnlock()
	for _, candidate := range store.items {
		if candidate.ID == id {
			return candidate
		}
	}
	return nil
}

func (store *dataStore) updateItem(id string, patch itemPatch) *item {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, candidate := range store.items {
		if candidate.ID == id {
			candidate.Title = patch.Title
			candidate.Description = patch.Description
			candidate.IsDonation = patch.IsDonation
			candidate.Condition = patch.Condition
			candidate.City = patch.City
			candidate.CategoryID = patch.CategoryID
			return candidate
		}
	}
	return nil
}

func (store *dataStore) deleteItem(id string) bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	for index, candidate := range store.items {
		if candidate.ID == id {
			store.items = append(store.items[:index], store.items[index+1:]...)
			return true
		}
	}
	return false
}

// itemFilter mirrors the query parameters of GET /items.
type itemFilter struct {
	query      string
	categoryID string
	condition  string
	city       string
	isDonation *bool
	skip       int
	limit      int
}

// listItems returns matching items, newest first. Text matching is accent-
// and case-insensitive because the seed data is Portuguese.
func (store *dataStore) listItems(filter itemFilter) []*item {
	store.mu.RLock()
	defer store.mu.RUnlock()

	// items is append-only and ordered by creation, so walking it backwards
	// yields newest-first without a timestamp sort.
	matched := make([]*item, 0, len(store.items))
	for index := len(store.items) - 1; index >= 0; index-- {
		candidate := store.items[index]
		if filter.query != "" &&
			!fold.Contains(candidate.Title, filter.query) &&
			!fold.Contains(candidate.Description, filter.query) {
			continue
		}
		if filter.categoryID != "" && candidate.CategoryID != filter.categoryID {
			continue
		}
		if filter.condition != "" && candidate.Condition != filter.condition {
			continue
		}
		if filter.city != "" && !fold.Contains(candidate.City, filter.city) {
			continue
		}
		if filter.isDonation != nil && candidate.IsDonation != *filter.isDonation {
			continue
		}
		matched = append(matched, candidate)
	}

	if filter.skip > 0 {
		if filter.skip >= len(matched) {
			return nil
		}
		matched = matched[filter.skip:]
	}
	limit := filter.limit
	if limit <= 0 {
		limit = 50
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}
