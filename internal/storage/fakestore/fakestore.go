// Package fakestore is an in-memory storage.MediaStore that records calls, for tests.
package fakestore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"alcyxob/portfolio-api/internal/domain"
	"alcyxob/portfolio-api/internal/storage"
)

// ErrInjected is returned by operations configured to fail.
var ErrInjected = errors.New("injected media store failure")

// StoreCall records one Store invocation.
type StoreCall struct {
	Object      storage.Object
	Destination storage.Destination
}

// DeleteCall records one Delete invocation.
type DeleteCall struct {
	RemoteID string
	Kind     domain.ResourceKind
}

// Store keeps objects in a map keyed by remote id.
type Store struct {
	mu sync.Mutex

	FailStore  bool
	FailDelete bool
	FailPing   bool

	Stores  []StoreCall
	Deletes []DeleteCall
	objects map[string]storage.Object
	seq     int
}

func New() *Store {
	return &Store{objects: make(map[string]storage.Object)}
}

func (s *Store) Name() string { return "fake" }

func (s *Store) Store(_ context.Context, obj storage.Object, dest storage.Destination) (*storage.StoredFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := dest.Constraints.Check(obj); err != nil {
		return nil, err
	}
	s.Stores = append(s.Stores, StoreCall{Object: obj, Destination: dest})
	if s.FailStore {
		return nil, ErrInjected
	}

	s.seq++
	id := fmt.Sprintf("%s/file-%d", dest.Folder, s.seq)
	s.objects[id] = obj
	return &storage.StoredFile{URL: "https://media.test/" + id, RemoteID: id}, nil
}

func (s *Store) Delete(_ context.Context, remoteID string, kind domain.ResourceKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Deletes = append(s.Deletes, DeleteCall{RemoteID: remoteID, Kind: kind})
	if s.FailDelete {
		return ErrInjected
	}
	if _, ok := s.objects[remoteID]; !ok {
		return fmt.Errorf("object %q not found", remoteID)
	}
	delete(s.objects, remoteID)
	return nil
}

func (s *Store) Ping(context.Context) error {
	if s.FailPing {
		return ErrInjected
	}
	return nil
}

// Has reports whether remoteID is currently stored.
func (s *Store) Has(remoteID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[remoteID]
	return ok
}

// StoreCount returns the number of Store calls so far.
func (s *Store) StoreCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Stores)
}

// DeletedIDs returns the remote ids passed to Delete, in call order.
func (s *Store) DeletedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.Deletes))
	for i, d := range s.Deletes {
		ids[i] = d.RemoteID
	}
	return ids
}
