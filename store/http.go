package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// HTTPStore implements Store against a remote HTTP endpoint, mapping keys
// to resource paths under a base URL: GET for reads, PUT for writes,
// DELETE for removal. A 404 response maps to ErrNotFound.
//
// List issues a GET on the prefix path and expects a newline-delimited
// listing of keys relative to the base URL; servers that do not support
// listing make List return an error, which the engine never needs for
// plain reads and writes.
//
// The store does not retry; retry policy belongs to the caller or to a
// wrapping http.RoundTripper.
type HTTPStore struct {
	base   *url.URL
	client *http.Client

	username string
	password string
}

// HTTPOption customizes an HTTPStore.
type HTTPOption func(*HTTPStore)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPStore) {
		s.client = c
	}
}

// WithBasicAuth sends basic auth credentials with every request.
func WithBasicAuth(username, password string) HTTPOption {
	return func(s *HTTPStore) {
		s.username = username
		s.password = password
	}
}

// NewHTTPStore creates a store for the given base URL.
func NewHTTPStore(base string, optFns ...HTTPOption) (*HTTPStore, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	s := &HTTPStore{
		base:   u,
		client: http.DefaultClient,
	}
	for _, fn := range optFns {
		fn(s)
	}
	return s, nil
}

func (s *HTTPStore) do(ctx context.Context, method, key string, body []byte) (*http.Response, error) {
	// Plain concatenation: the key's trailing slash is significant for
	// prefix listings and must survive.
	u := strings.TrimSuffix(s.base.String(), "/") + "/" + key
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		return nil, err
	}
	if s.username != "" {
		req.SetBasicAuth(s.username, s.password)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, ErrNotFound
	case resp.StatusCode >= 300:
		resp.Body.Close()
		return nil, fmt.Errorf("%s %s: unexpected status %s", method, key, resp.Status)
	}
	return resp, nil
}

// Get fetches the resource at the key's path, or ErrNotFound on 404.
func (s *HTTPStore) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.do(ctx, http.MethodGet, key, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// Put uploads data to the key's path.
func (s *HTTPStore) Put(ctx context.Context, key string, data []byte) error {
	resp, err := s.do(ctx, http.MethodPut, key, data)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// Delete removes the resource at the key's path, or ErrNotFound on 404.
func (s *HTTPStore) Delete(ctx context.Context, key string) error {
	resp, err := s.do(ctx, http.MethodDelete, key, nil)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// List fetches the newline-delimited key listing for the prefix and
// returns the sorted keys.
func (s *HTTPStore) List(ctx context.Context, prefix string) ([]string, error) {
	resp, err := s.do(ctx, http.MethodGet, prefix, nil)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			keys = append(keys, line)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
