package sample

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/open-source-cooperative/keyring-core/internal/secure"
	"github.com/open-source-cooperative/keyring-core/pkg/keyring"
)

// Instance counter for store IDs. The Go runtime collects cycles, so unlike
// stores in languages with reference counting we can hand records a direct
// pointer to their owning store; the arena only needs to mint stable
// per-process instance indexes.
var nextIndex atomic.Int64

// credID identifies one bucket of records. Equality is structural, so two
// entries built with the same pair resolve to the same bucket.
type credID struct {
	service string
	user    string
}

// record is the stored data for one credential. Methods on Credential
// acquire the record mutex around every read or write, so two concurrent
// writers to the same record serialize, last-committed-wins.
type record struct {
	mu      sync.Mutex
	id      string
	secret  *secure.Buffer
	comment *string
	created *string
}

func newRecord(secret []byte) *record {
	return &record{id: uuid.NewString(), secret: secure.NewBuffer(secret)}
}

func (r *record) setSecret(secret []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.secret.Set(secret)
}

func (r *record) getSecret() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.secret.Bytes()
}

// bucket holds the records currently associated with one (service, user)
// pair. The bucket lock protects record membership; record state is
// protected by each record's own mutex.
type bucket struct {
	mu      sync.RWMutex
	records map[string]*record
}

// Store is the reference credential store. It implements keyring.Store.
type Store struct {
	index   int64
	backing string // "" means in-memory only

	// mu protects bucket existence in the outer map. The map is never
	// replaced wholesale after construction.
	mu      sync.RWMutex
	buckets map[credID]*bucket
}

// New creates an empty store with no backing file.
func New() *Store {
	return &Store{
		index:   nextIndex.Add(1) - 1,
		buckets: make(map[credID]*bucket),
	}
}

// NewWithBacking creates a store backed by the given file path. The path
// must be valid but the file need not exist; if it does, the store's
// initial contents are loaded from it.
func NewWithBacking(path string) (*Store, error) {
	buckets, err := loadSnapshot(path)
	if err != nil {
		return nil, err
	}
	return &Store{
		index:   nextIndex.Add(1) - 1,
		backing: path,
		buckets: buckets,
	}, nil
}

// Vendor identifies this store implementation.
func (s *Store) Vendor() string {
	return "github.com/open-source-cooperative/keyring-core/pkg/sample"
}

// ID identifies this store instance within the process.
func (s *Store) ID() string {
	return fmt.Sprintf("sample-store-%d", s.index)
}

// Persistence reports ProcessOnly for in-memory stores and UntilDelete for
// file-backed ones.
func (s *Store) Persistence() keyring.Persistence {
	if s.backing == "" {
		return keyring.PersistenceProcessOnly
	}
	return keyring.PersistenceUntilDelete
}

// Build creates an entry for the given service and user.
//
// Without modifiers the entry is a specifier and the store's content is
// untouched. With the "create" modifier, a new record with an empty secret
// is created immediately — possibly alongside existing records for the same
// pair — and the returned entry is a wrapper pinned to it. See the package
// documentation for the attributes stamped on created records. All other
// modifier keys are rejected.
func (s *Store) Build(service, user string, modifiers map[string]string) (*keyring.Entry, error) {
	mods, err := keyring.ParseAttributes([]string{"create"}, modifiers)
	if err != nil {
		return nil, err
	}
	id := credID{service: service, user: user}
	cred := &Credential{store: s, id: id}
	if comment, ok := mods["create"]; ok {
		created := time.Now().Format(time.RFC1123Z)
		rec := &record{
			id:      uuid.NewString(),
			secret:  secure.NewBuffer(nil),
			comment: &comment,
			created: &created,
		}
		b := s.ensureBucket(id)
		b.mu.Lock()
		b.records[rec.id] = rec
		b.mu.Unlock()
		cred = &Credential{store: s, id: id, uuid: rec.id}
	}
	return keyring.NewFromCredential(cred), nil
}

// bucketFor returns the bucket for id, or nil if none exists.
func (s *Store) bucketFor(id credID) *bucket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buckets[id]
}

// ensureBucket returns the bucket for id, creating it if absent.
func (s *Store) ensureBucket(id credID) *bucket {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.buckets[id]
	if b == nil {
		b = &bucket{records: make(map[string]*record)}
		s.buckets[id] = b
	}
	return b
}

// CredentialFor recovers the sample store's concrete credential from an
// entry, for callers that need store-specific access such as the pinned
// record UUID. ok is false if the entry belongs to another store.
func CredentialFor(e *keyring.Entry) (*Credential, bool) {
	c, ok := e.Credential().(*Credential)
	return c, ok
}
