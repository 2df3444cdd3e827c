package service

import (
	"context"
	"strconv"
	"time"

	"github.com/registryhq/identity-service/internal/core/domain"
	"github.com/registryhq/identity-service/internal/core/ports"
)

// In-memory fakes shared by the service tests. They enforce the same
// uniqueness rules as the real Mongo repositories.

type stubUserRepo struct {
	seq   int
	users map[string]*domain.User // keyed by id
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	copy := cloneUser(user)
	copy.ID = "user_" + strconv.Itoa(r.seq)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

type stubPhoneRepo struct {
	seq    int
	phones []*domain.Phone
}

func (r *stubPhoneRepo) Create(_ context.Context, phone *domain.Phone) (*domain.Phone, error) {
	for _, p := range r.phones {
		if p.Number == phone.Number {
			return nil, domain.ErrPhoneExists
		}
	}
	r.seq++
	copy := *phone
	copy.ID = "phone_" + strconv.Itoa(r.seq)
	r.phones = append(r.phones, &copy)
	out := copy
	return &out, nil
}

func (r *stubPhoneRepo) FindByNumber(_ context.Context, number string) (*domain.Phone, error) {
	for _, p := range r.phones {
		if p.Number == number {
			copy := *p
			return &copy, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubPhoneRepo) ListByUser(_ context.Context, userID string) ([]domain.Phone, error) {
	var out []domain.Phone
	for _, p := range r.phones {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

type stubRelationshipRepo struct {
	seq  int
	rels map[string]*domain.Relationship
}

func newStubRelationshipRepo() *stubRelationshipRepo {
	return &stubRelationshipRepo{rels: make(map[string]*domain.Relationship)}
}

func (r *stubRelationshipRepo) Create(_ context.Context, rel *domain.Relationship) (*domain.Relationship, error) {
	r.seq++
	copy := *rel
	copy.ID = "rel_" + strconv.Itoa(r.seq)
	r.rels[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *stubRelationshipRepo) FindByID(_ context.Context, id string) (*domain.Relationship, error) {
	rel, ok := r.rels[id]
	if !ok {
		return nil, domain.ErrRelationshipNotFound
	}
	copy := *rel
	return &copy, nil
}

func (r *stubRelationshipRepo) Update(_ context.Context, rel *domain.Relationship) error {
	if _, ok := r.rels[rel.ID]; !ok {
		return domain.ErrRelationshipNotFound
	}
	copy := *rel
	r.rels[rel.ID] = &copy
	return nil
}

type stubAPIKeyRepo struct {
	seq  int
	keys map[string]*domain.ProjectAPIKey // keyed by pub key
}

func newStubAPIKeyRepo() *stubAPIKeyRepo {
	return &stubAPIKeyRepo{keys: make(map[string]*domain.ProjectAPIKey)}
}

func (r *stubAPIKeyRepo) Create(_ context.Context, key *domain.ProjectAPIKey) (*domain.ProjectAPIKey, error) {
	if _, exists := r.keys[key.PubKey]; exists {
		return nil, domain.ErrAPIKeyInvalid
	}
	r.seq++
	copy := *key
	copy.ID = "key_" + strconv.Itoa(r.seq)
	r.keys[copy.PubKey] = &copy
	out := copy
	return &out, nil
}

func (r *stubAPIKeyRepo) FindByPubKey(_ context.Context, pubKey string) (*domain.ProjectAPIKey, error) {
	key, ok := r.keys[pubKey]
	if !ok {
		return nil, domain.ErrAPIKeyInvalid
	}
	copy := *key
	return &copy, nil
}

type stubOTPStore struct {
	saved map[string]string
	fails map[string]int64
}

func newStubOTPStore() *stubOTPStore {
	return &stubOTPStore{saved: make(map[string]string), fails: make(map[string]int64)}
}

func (s *stubOTPStore) Save(_ context.Context, key, hash string, _ time.Duration) error {
	s.saved[key] = hash
	delete(s.fails, key)
	return nil
}

func (s *stubOTPStore) Load(_ context.Context, key string) (string, error) {
	hash, ok := s.saved[key]
	if !ok {
		return "", ports.ErrOTPNotFound
	}
	return hash, nil
}

func (s *stubOTPStore) Fail(_ context.Context, key string) (int64, error) {
	s.fails[key]++
	return s.fails[key], nil
}

func (s *stubOTPStore) Delete(_ context.Context, key string) error {
	delete(s.saved, key)
	delete(s.fails, key)
	return nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type stubNotifier struct {
	mails []sentMail
	sms   []sentMail
	fail  error
}

func (n *stubNotifier) SendEmail(_ context.Context, to, subject, body string) error {
	if n.fail != nil {
		return n.fail
	}
	n.mails = append(n.mails, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (n *stubNotifier) SendSMS(_ context.Context, to, body string) error {
	if n.fail != nil {
		return n.fail
	}
	n.sms = append(n.sms, sentMail{to: to, body: body})
	return nil
}

type recordingDispatcher struct {
	mails []sentMail
	sms   []sentMail
}

func (d *recordingDispatcher) EnqueueEmail(to, subject, body string) {
	d.mails = append(d.mails, sentMail{to: to, subject: subject, body: body})
}

func (d *recordingDispatcher) EnqueueSMS(to, body string) {
	d.sms = append(d.sms, sentMail{to: to, body: body})
}
