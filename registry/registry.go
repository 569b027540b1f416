// Package registry holds the process-wide tables spec §5 and §9 describe:
// parsed documents indexed by a dense integer, and each document's
// command buffers indexed by a ResumeKey. Both tables are single-threaded
// (accessed only from the host's main execution context) and drained, in
// the required order, by Clear.
package registry

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/bapicore/dmm/cmdbuf"
	"github.com/bapicore/dmm/parser"
)

// Registry owns every live document and command buffer. The zero value is
// not usable; construct with New.
type Registry struct {
	docs    map[int]*parser.MapDocument
	nextDoc int

	buffers    map[int]map[cmdbuf.ResumeKey]*cmdbuf.CommandBuffer
	nextResume atomic.Uint64
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		docs:    make(map[int]*parser.MapDocument),
		buffers: make(map[int]map[cmdbuf.ResumeKey]*cmdbuf.CommandBuffer),
	}
}

// AddDocument registers a newly parsed document and returns its dense
// internal index, the value a host-visible Handle stores as
// _internal_index.
func (r *Registry) AddDocument(doc *parser.MapDocument) int {
	idx := r.nextDoc
	r.nextDoc++
	r.docs[idx] = doc
	r.buffers[idx] = make(map[cmdbuf.ResumeKey]*cmdbuf.CommandBuffer)
	return idx
}

// Document looks up a previously registered document by internal index.
func (r *Registry) Document(idx int) (*parser.MapDocument, error) {
	doc, ok := r.docs[idx]
	if !ok {
		return nil, fmt.Errorf("registry: unknown document index %d", idx)
	}
	return doc, nil
}

// AddCommandBuffer registers buf under a document and allocates it a fresh
// ResumeKey.
func (r *Registry) AddCommandBuffer(docIdx int, buf *cmdbuf.CommandBuffer) (cmdbuf.ResumeKey, error) {
	set, ok := r.buffers[docIdx]
	if !ok {
		return 0, fmt.Errorf("registry: unknown document index %d", docIdx)
	}
	key := cmdbuf.ResumeKey(r.allocResumeKey(docIdx))
	set[key] = buf
	return key, nil
}

// allocResumeKey derives the next resume key from a monotonic counter and
// the owning document's index, run through xxhash so that keys handed to
// hosts don't leak the registration order as a bare sequence number. The
// counter makes every hashed input distinct, so two keys collide only if
// the 64-bit hash does; the hash is not a digest of the plan's contents.
func (r *Registry) allocResumeKey(docIdx int) uint64 {
	seq := r.nextResume.Add(1)
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], seq)
	binary.LittleEndian.PutUint64(buf[8:16], uint64(docIdx))
	return xxhash.Sum64(buf[:])
}

// CommandBuffer looks up a previously registered command buffer.
func (r *Registry) CommandBuffer(docIdx int, key cmdbuf.ResumeKey) (*cmdbuf.CommandBuffer, error) {
	set, ok := r.buffers[docIdx]
	if !ok {
		return nil, fmt.Errorf("registry: unknown document index %d", docIdx)
	}
	buf, ok := set[key]
	if !ok {
		return nil, fmt.Errorf("registry: unknown resume key %d for document %d", key, docIdx)
	}
	return buf, nil
}

// DropCommandBuffer removes a fully-drained buffer (spec §4.10 step 4).
func (r *Registry) DropCommandBuffer(docIdx int, key cmdbuf.ResumeKey) {
	if set, ok := r.buffers[docIdx]; ok {
		delete(set, key)
	}
}

// Clear tears down every document and buffer in the order spec §5 and §9
// require: command buffers first, then documents, because commands hold
// borrows into a document's text.
func (r *Registry) Clear() {
	for idx := range r.buffers {
		r.buffers[idx] = make(map[cmdbuf.ResumeKey]*cmdbuf.CommandBuffer)
	}
	r.buffers = make(map[int]map[cmdbuf.ResumeKey]*cmdbuf.CommandBuffer)
	r.docs = make(map[int]*parser.MapDocument)
	r.nextDoc = 0
}
