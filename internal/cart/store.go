package cart

import "sync"

// Store はセッションIDごとのカート置き場
type Store struct {
	mu    sync.Mutex
	books BookReader
	carts map[string]*Cart
}

func NewStore(books BookReader) *Store {
	return &Store{books: books, carts: make(map[string]*Cart)}
}

// Get は無ければ作る
func (s *Store) Get(sessionID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[sessionID]
	if !ok {
		c = New(s.books)
		s.carts[sessionID] = c
	}
	return c
}

// Peek は作らずに探す
func (s *Store) Peek(sessionID string) (*Cart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[sessionID]
	return c, ok
}

func (s *Store) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}
