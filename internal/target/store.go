package target

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/NoodlesKamiSama/reap/internal/errs"
)

// Account is one registered user of the stand-in application.
type Account struct {
	ID        string    `json:"id"`
	UserName  string    `json:"userName"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	Company   string    `json:"company,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	passwordHash []byte
}

// ErrDuplicate is returned when the user name is already registered.
var ErrDuplicate = errs.New(errs.InvalidArgument, "user name already registered")

// ErrBadCredentials is returned on a failed login.
var ErrBadCredentials = errs.New(errs.InvalidArgument, "invalid user name or password")

// accountStore is an in-memory account registry. The stand-in exists to be
// probed, not to persist anything, so process lifetime is the only durability
// it needs.
type accountStore struct {
	mu     sync.RWMutex
	byName map[string]*Account
	byID   map[string]*Account
}

func newAccountStore() *accountStore {
	return &accountStore{
		byName: make(map[string]*Account),
		byID:   make(map[string]*Account),
	}
}

// Create registers a new account. The password is bcrypt-hashed; the stand-in
// behaves like the production systems it imitates so credential probes see
// realistic latency and semantics.
func (s *accountStore) Create(userName, password, firstName, lastName, company, phone string) (*Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "hash password", err)
	}

	key := strings.ToLower(userName)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byName[key]; exists {
		return nil, ErrDuplicate
	}

	account := &Account{
		ID:           uuid.NewString(),
		UserName:     userName,
		FirstName:    firstName,
		LastName:     lastName,
		Company:      company,
		Phone:        phone,
		CreatedAt:    time.Now().UTC(),
		passwordHash: hash,
	}
	s.byName[key] = account
	s.byID[account.ID] = account
	return account, nil
}

// Authenticate checks credentials and returns the account on success.
func (s *accountStore) Authenticate(userName, password string) (*Account, error) {
	s.mu.RLock()
	account, exists := s.byName[strings.ToLower(userName)]
	s.mu.RUnlock()
	if !exists {
		return nil, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(account.passwordHash, []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}
	return account, nil
}

// Get returns the account with the given ID, or nil.
func (s *accountStore) Get(id string) *Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byID[id]
}

// Len returns the number of registered accounts.
func (s *accountStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byName)
}
