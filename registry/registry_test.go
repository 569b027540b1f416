package registry

import (
	"testing"

	"github.com/bapicore/dmm/cmdbuf"
	"github.com/bapicore/dmm/parser"
)

func TestRegistryDocumentLifecycle(t *testing.T) {
	r := New()
	doc, err := parser.Parse("t", "\"a\" = (/turf/open/floor,/area/station)\n(1,1,1) = {\"a\"}\n")
	if err != nil {
		t.Fatal(err)
	}

	idx := r.AddDocument(doc)
	got, err := r.Document(idx)
	if err != nil {
		t.Fatal(err)
	}
	if got != doc {
		t.Fatal("Document returned a different pointer than was registered")
	}

	if _, err := r.Document(idx + 1); err == nil {
		t.Fatal("expected an error for an unknown document index")
	}
}

func TestRegistryCommandBufferLifecycleAndUniqueKeys(t *testing.T) {
	r := New()
	doc, err := parser.Parse("t", "\"a\" = (/turf/open/floor,/area/station)\n(1,1,1) = {\"a\"}\n")
	if err != nil {
		t.Fatal(err)
	}
	idx := r.AddDocument(doc)

	buf1 := cmdbuf.NewCommandBuffer(nil, nil)
	buf2 := cmdbuf.NewCommandBuffer(nil, nil)

	key1, err := r.AddCommandBuffer(idx, buf1)
	if err != nil {
		t.Fatal(err)
	}
	key2, err := r.AddCommandBuffer(idx, buf2)
	if err != nil {
		t.Fatal(err)
	}
	if key1 == key2 {
		t.Fatal("expected two distinct resume keys")
	}

	if got, err := r.CommandBuffer(idx, key1); err != nil || got != buf1 {
		t.Fatalf("CommandBuffer(key1) = %v, %v", got, err)
	}

	r.DropCommandBuffer(idx, key1)
	if _, err := r.CommandBuffer(idx, key1); err == nil {
		t.Fatal("expected an error after dropping the buffer")
	}
	if _, err := r.CommandBuffer(idx, key2); err != nil {
		t.Fatal("dropping key1 should not affect key2")
	}
}

func TestRegistryClearRemovesBuffersAndDocuments(t *testing.T) {
	r := New()
	doc, err := parser.Parse("t", "\"a\" = (/turf/open/floor,/area/station)\n(1,1,1) = {\"a\"}\n")
	if err != nil {
		t.Fatal(err)
	}
	idx := r.AddDocument(doc)
	if _, err := r.AddCommandBuffer(idx, cmdbuf.NewCommandBuffer(nil, nil)); err != nil {
		t.Fatal(err)
	}

	r.Clear()

	if _, err := r.Document(idx); err == nil {
		t.Fatal("expected Clear to remove all documents")
	}
	if _, err := r.AddCommandBuffer(idx, cmdbuf.NewCommandBuffer(nil, nil)); err == nil {
		t.Fatal("expected Clear to remove all buffer tables too")
	}
}
