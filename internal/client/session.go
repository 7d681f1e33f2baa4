package client

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Slot file names under the session state directory. The token is kept as a
// raw string, the user as serialized JSON, mirroring each other's lifetime.
const (
	tokenSlot = "token"
	userSlot  = "user.json"
)

// Session holds the signed-in state for the lifetime of the process and
// mirrors every transition to the state directory, so memory and disk never
// disagree.
type Session struct {
	dir    string
	client *Client

	User  *User
	Token string
}

// NewSession restores any persisted state from dir. A missing or partial
// state directory simply yields a signed-out session.
func NewSession(baseURL, dir string) (*Session, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	s := &Session{
		dir:    dir,
		client: New(baseURL),
	}

	token, err := os.ReadFile(filepath.Join(dir, tokenSlot))
	if err != nil {
		return s, nil
	}

	userData, err := os.ReadFile(filepath.Join(dir, userSlot))
	if err != nil {
		return s, nil
	}

	var user User
	if err := json.Unmarshal(userData, &user); err != nil {
		// One slot is unreadable, drop both rather than run half signed-in.
		s.Logout()
		return s, nil
	}

	s.Token = string(token)
	s.User = &user
	s.client.SetToken(s.Token)

	return s, nil
}

// API returns the underlying client, carrying the session's token.
func (s *Session) API() *Client {
	return s.client
}

func (s *Session) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

func (s *Session) Login(email, password string) (*User, error) {
	resp, err := s.client.Login(email, password)
	if err != nil {
		s.Logout()
		return nil, err
	}

	return s.adopt(resp)
}

func (s *Session) Register(username, email, password, role string) (*User, error) {
	resp, err := s.client.Register(username, email, password, role)
	if err != nil {
		s.Logout()
		return nil, err
	}

	return s.adopt(resp)
}

// Logout clears both slots and the in-memory state unconditionally. The
// server keeps no session record; the token simply ages out.
func (s *Session) Logout() {
	os.Remove(filepath.Join(s.dir, tokenSlot))
	os.Remove(filepath.Join(s.dir, userSlot))

	s.Token = ""
	s.User = nil
	s.client.SetToken("")
}

func (s *Session) adopt(resp *AuthResponse) (*User, error) {
	userData, err := json.Marshal(resp.User)
	if err != nil {
		s.Logout()
		return nil, err
	}

	if err := os.WriteFile(filepath.Join(s.dir, tokenSlot), []byte(resp.Token), 0o600); err != nil {
		s.Logout()
		return nil, err
	}

	if err := os.WriteFile(filepath.Join(s.dir, userSlot), userData, 0o600); err != nil {
		s.Logout()
		return nil, err
	}

	user := resp.User
	s.Token = resp.Token
	s.User = &user
	s.client.SetToken(resp.Token)

	return s.User, nil
}
