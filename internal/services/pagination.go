package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/desertthunder/scx/internal/shared"
)

const DefaultPageSize = 50

type cursorKey struct {
	endpoint EndpointName
	arg      string
}

type page struct {
	Collection *[]json.RawMessage `json:"collection"`
	NextHref   *string            `json:"next_href"`
}

// Paginator fetches collection pages and remembers the continuation URL per (endpoint, argument) key.
//
// Fetches for the same key are serialized; distinct keys run concurrently.
type Paginator struct {
	registry *Registry
	executor *Executor
	pageSize int

	mu      sync.Mutex
	cursors map[cursorKey]string
	locks   map[cursorKey]*sync.Mutex
}

func NewPaginator(registry *Registry, executor *Executor, pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Paginator{
		registry: registry,
		executor: executor,
		pageSize: pageSize,
		cursors:  make(map[cursorKey]string),
		locks:    make(map[cursorKey]*sync.Mutex),
	}
}

// FetchPage returns the raw records of the next page of the named collection.
//
// With reset set, any stored cursor is dropped and the fetch starts from the endpoint's base URL.
// arg fills the endpoint's placeholder (a playlist or user id, a search query) and is part of the cursor key.
// An empty page is a valid end-of-collection result.
func (p *Paginator) FetchPage(ctx context.Context, name EndpointName, reset bool, arg string) ([]json.RawMessage, error) {
	ep, err := p.registry.Resolve(name)
	if err != nil {
		return nil, err
	}
	if !ep.Paginated {
		return nil, fmt.Errorf("%w: %s is not a collection", shared.ErrInvalidArgument, name)
	}

	key := cursorKey{endpoint: name, arg: arg}
	lock := p.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	if reset {
		p.Reset(name, arg)
	}

	target, ok := p.Cursor(name, arg)
	if !ok {
		if target, err = p.firstPage(ep, arg); err != nil {
			return nil, err
		}
	}

	resp, err := p.executor.ExecuteURL(ctx, ep, target, nil)
	if err != nil {
		return nil, err
	}

	records, next, err := decodePage(resp.Value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	p.mu.Lock()
	if next != "" {
		p.cursors[key] = next
	} else {
		delete(p.cursors, key)
	}
	p.mu.Unlock()

	return records, nil
}

// Reset drops the cursor for the key so the next fetch restarts the collection.
func (p *Paginator) Reset(name EndpointName, arg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.cursors, cursorKey{endpoint: name, arg: arg})
}

// Cursor returns the stored next page URL for the key.
func (p *Paginator) Cursor(name EndpointName, arg string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	next, ok := p.cursors[cursorKey{endpoint: name, arg: arg}]
	return next, ok
}

// Restore stores next as the cursor for the key, as if a page ending at next had just been fetched.
// An empty next forgets the key.
func (p *Paginator) Restore(name EndpointName, arg, next string) {
	if next == "" {
		p.Reset(name, arg)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cursors[cursorKey{endpoint: name, arg: arg}] = next
}

func (p *Paginator) lockFor(key cursorKey) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	lock, ok := p.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[key] = lock
	}
	return lock
}

// firstPage builds the base URL with page-size defaults.
func (p *Paginator) firstPage(ep Endpoint, arg string) (string, error) {
	params := map[string]string{}
	if ep.Param != "" {
		if arg == "" {
			return "", fmt.Errorf("%w: %s for %s", shared.ErrMissingArgument, ep.Param, ep.Name)
		}
		params[ep.Param] = arg
	}

	target, err := ep.Expand(params)
	if err != nil {
		return "", err
	}

	target = appendQuery(target, "limit", strconv.Itoa(p.pageSize))
	return appendQuery(target, "linked_partitioning", "true"), nil
}

// decodePage reads a "{collection, next_href}" page. A bare JSON array is accepted as a final page.
func decodePage(body string) ([]json.RawMessage, string, error) {
	data := bytes.TrimSpace([]byte(body))
	if len(data) > 0 && data[0] == '[' {
		var records []json.RawMessage
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, "", fmt.Errorf("%w: %w", shared.ErrMalformedResponse, err)
		}
		return records, "", nil
	}

	var pg page
	if err := json.Unmarshal(data, &pg); err != nil {
		return nil, "", fmt.Errorf("%w: %w", shared.ErrMalformedResponse, err)
	}
	if pg.Collection == nil {
		return nil, "", fmt.Errorf("%w: missing collection", shared.ErrMalformedResponse)
	}

	next := ""
	if pg.NextHref != nil {
		next = *pg.NextHref
	}
	return *pg.Collection, next, nil
}
