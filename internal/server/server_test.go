package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/mhalbert/chainviz/pkg/chain"
	"github.com/mhalbert/chainviz/pkg/chain/elements"
	"github.com/mhalbert/chainviz/pkg/chain/layout"
	"github.com/mhalbert/chainviz/pkg/errors"
	"github.com/mhalbert/chainviz/pkg/source"
)

// fakeSource serves a fixed set of documents and counts loads so tests can
// observe cache behavior.
type fakeSource struct {
	docs  map[string]*chain.Document
	loads atomic.Int64
}

func (f *fakeSource) List(ctx context.Context) ([]source.FileInfo, error) {
	var files []source.FileInfo
	for name, doc := range f.docs {
		files = append(files, source.FileInfo{Name: name, Label: doc.RootTopic})
	}
	return files, nil
}

func (f *fakeSource) Load(ctx context.Context, name string) (*chain.Document, error) {
	f.loads.Add(1)
	doc, ok := f.docs[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", name)
	}
	return doc, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeSource) {
	t.Helper()
	src := &fakeSource{docs: map[string]*chain.Document{
		"battery": chain.NewDocument("Battery", chain.Structure{
			Upstream:   []string{"mining"},
			Midstream:  []string{"cells"},
			Downstream: []string{"packs"},
		}, map[string]chain.EntityDetail{
			"cells": {Name: "Cell Manufacturing", InputElements: []string{"mining"}, OutputProducts: []string{"packs"}},
		}),
	}}

	srv := httptest.NewServer(New(Options{
		Source: src,
		Layout: layout.DefaultConfig,
	}).Handler())
	t.Cleanup(srv.Close)
	return srv, src
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	var body map[string]string
	if status := getJSON(t, srv.URL+"/healthz", &body); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v, want status ok", body)
	}
}

func TestFiles(t *testing.T) {
	srv, _ := newTestServer(t)

	var files []source.FileInfo
	if status := getJSON(t, srv.URL+"/api/files", &files); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(files) != 1 || files[0].Name != "battery" || files[0].Label != "Battery" {
		t.Errorf("files = %v, want [{battery Battery}]", files)
	}
}

func TestGraph(t *testing.T) {
	srv, _ := newTestServer(t)

	var els []elements.Element
	if status := getJSON(t, srv.URL+"/api/graph?file=battery", &els); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}

	stats := elements.Count(els)
	if stats.Nodes != 3 || stats.Edges != 2 {
		t.Errorf("stats = %+v, want 3 nodes, 2 edges", stats)
	}
}

func TestGraphCached(t *testing.T) {
	srv, src := newTestServer(t)

	for i := 0; i < 3; i++ {
		if status := getJSON(t, srv.URL+"/api/graph?file=battery", nil); status != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, status)
		}
	}
	if loads := src.loads.Load(); loads != 1 {
		t.Errorf("source loads = %d, want 1 (later requests served from cache)", loads)
	}
}

func TestGraphMissingFileParam(t *testing.T) {
	srv, _ := newTestServer(t)

	var body map[string]string
	if status := getJSON(t, srv.URL+"/api/graph", &body); status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if body["code"] != string(errors.ErrCodeInvalidFormat) {
		t.Errorf("code = %q, want %q", body["code"], errors.ErrCodeInvalidFormat)
	}
}

func TestGraphUnknownDocument(t *testing.T) {
	srv, _ := newTestServer(t)

	var body map[string]string
	if status := getJSON(t, srv.URL+"/api/graph?file=nope", &body); status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
	if body["code"] != string(errors.ErrCodeDocumentNotFound) {
		t.Errorf("code = %q, want %q", body["code"], errors.ErrCodeDocumentNotFound)
	}
}

func TestEntity(t *testing.T) {
	srv, _ := newTestServer(t)

	var body struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if status := getJSON(t, srv.URL+"/api/entities/cells?file=battery", &body); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if body.ID != "cells" || body.Name != "Cell Manufacturing" {
		t.Errorf("body = %+v, want cells / Cell Manufacturing", body)
	}
}

func TestEntityNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	var body map[string]string
	if status := getJSON(t, srv.URL+"/api/entities/ghost?file=battery", &body); status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
	if body["code"] != string(errors.ErrCodeEntityNotFound) {
		t.Errorf("code = %q, want %q", body["code"], errors.ErrCodeEntityNotFound)
	}
}

func TestCORSHeaders(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
