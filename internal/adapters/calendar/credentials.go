package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"

	"github.com/focusqueue/core/internal/domain/entities"
	"github.com/focusqueue/core/internal/infrastructure/logger"
	"github.com/focusqueue/core/internal/ports"
)

// FileCredentialSupplier serves the OAuth token stored by an external
// consent flow. It refreshes expired tokens with the client secrets file
// and writes the refreshed token back.
type FileCredentialSupplier struct {
	credentialsFile string
	tokenFile       string
	logger          *logger.Logger

	mu sync.Mutex
}

// NewFileCredentialSupplier creates a supplier over credentials.json and token.json.
func NewFileCredentialSupplier(credentialsFile, tokenFile string, log *logger.Logger) ports.CredentialSupplier {
	return &FileCredentialSupplier{
		credentialsFile: credentialsFile,
		tokenFile:       tokenFile,
		logger:          log.WithComponent("calendar_credentials"),
	}
}

func (s *FileCredentialSupplier) GetValidCredential(ctx context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := tokenFromFile(s.tokenFile)
	if err != nil {
		return nil, authRequired(err)
	}
	if tok.Valid() {
		return tok, nil
	}
	if tok.RefreshToken == "" {
		return nil, authRequired(fmt.Errorf("token in %s expired and has no refresh token", s.tokenFile))
	}

	secrets, err := os.ReadFile(s.credentialsFile)
	if err != nil {
		return nil, authRequired(fmt.Errorf("unable to read client secret file %s: %w", s.credentialsFile, err))
	}
	cfg, err := google.ConfigFromJSON(secrets, gcal.CalendarEventsScope)
	if err != nil {
		return nil, authRequired(fmt.Errorf("unable to parse client secret file: %w", err))
	}

	fresh, err := cfg.TokenSource(ctx, tok).Token()
	if err != nil {
		return nil, authRequired(fmt.Errorf("refresh token: %w", err))
	}

	if fresh.AccessToken != tok.AccessToken || fresh.RefreshToken != tok.RefreshToken {
		if err := saveToken(s.tokenFile, fresh); err != nil {
			s.logger.Warnw("Failed to save refreshed token", "path", s.tokenFile, "error", err)
		}
	}
	return fresh, nil
}

func authRequired(err error) error {
	return entities.WrapError(entities.CodeAuthRequired, entities.ErrAuthRequired.Message, err)
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token from file %s: %w", path, err)
	}
	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tok)
}
