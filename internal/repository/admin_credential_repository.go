package repository

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/career-roadmap-api/pkg/config"
)

// AdminAccount is an administrator known to the credential store.
type AdminAccount struct {
	Username string
	Name     string
}

type adminCredential struct {
	account AdminAccount
	hash    []byte
}

// AdminCredentialRepository verifies administrator credentials. Passwords are
// held only as bcrypt hashes.
type AdminCredentialRepository struct {
	entries map[string]adminCredential
	// dummy keeps unknown usernames as slow as known ones.
	dummy []byte
}

// NewAdminCredentialRepository hashes the configured credentials.
func NewAdminCredentialRepository(credentials []config.AdminCredential) (*AdminCredentialRepository, error) {
	repo := &AdminCredentialRepository{entries: make(map[string]adminCredential, len(credentials))}
	for _, cred := range credentials {
		if cred.Username == "" || cred.Password == "" {
			return nil, fmt.Errorf("admin credential requires username and password")
		}
		if _, exists := repo.entries[cred.Username]; exists {
			return nil, fmt.Errorf("duplicate admin username %q", cred.Username)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(cred.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin credential: %w", err)
		}
		name := cred.Name
		if name == "" {
			name = cred.Username
		}
		repo.entries[cred.Username] = adminCredential{
			account: AdminAccount{Username: cred.Username, Name: name},
			hash:    hash,
		}
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("unused"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin credential: %w", err)
	}
	repo.dummy = dummy
	return repo, nil
}

// Verify returns the account when username and password match an entry.
func (r *AdminCredentialRepository) Verify(username, password string) (AdminAccount, bool) {
	entry, ok := r.entries[username]
	hash := r.dummy
	if ok {
		hash = entry.hash
	}
	match := bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
	if !ok || !match {
		return AdminAccount{}, false
	}
	return entry.account, true
}

// Len reports the number of configured administrators.
func (r *AdminCredentialRepository) Len() int {
	return len(r.entries)
}
