package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/akinalp/studytrack/database"
	"github.com/akinalp/studytrack/models"
	"github.com/akinalp/studytrack/pkg"
	"github.com/akinalp/studytrack/pkg/token"
	"github.com/akinalp/studytrack/repository"
	"github.com/akinalp/studytrack/ws"
)

// TokenService issues credential pairs and owns the session ledger.
//
// Each pair shares one token id (jti). The access half is verified
// statelessly; the refresh half is only honoured while its session row
// exists, so revocation is deleting that row.
type TokenService interface {
	Issue(ctx context.Context, user *models.User, client models.ClientInfo) (*models.TokenPair, error)
	// IssueWith inserts the session through q, joining the caller's
	// transaction.
	IssueWith(ctx context.Context, q database.TxQuerier, user *models.User, client models.ClientInfo) (*models.TokenPair, error)
	VerifyAccess(tokenString string) (*models.AccessClaims, error)
	VerifyRefresh(ctx context.Context, refreshToken string) (*models.RefreshClaims, *models.Session, error)
	Rotate(ctx context.Context, refreshToken string, client models.ClientInfo) (*models.TokenPair, error)
	Revoke(ctx context.Context, tokenID string) error
	RevokeAll(ctx context.Context, userID int64) (int64, error)
	ListSessions(ctx context.Context, userID int64, currentTokenID string) ([]models.Session, error)
}

const maxUserAgentLength = 512

type tokenService struct {
	db       *sql.DB
	sessions repository.SessionRepository
	signer   *token.Signer
	hub      ws.EventPublisher
	log      zerolog.Logger
}

func NewTokenService(
	db *sql.DB,
	sessions repository.SessionRepository,
	signer *token.Signer,
	hub ws.EventPublisher,
	logger zerolog.Logger,
) TokenService {
	return &tokenService{
		db:       db,
		sessions: sessions,
		signer:   signer,
		hub:      hub,
		log:      logger.With().Str("component", "tokens").Logger(),
	}
}

func (s *tokenService) Issue(ctx context.Context, user *models.User, client models.ClientInfo) (*models.TokenPair, error) {
	return s.issue(ctx, s.sessions, user, client)
}

func (s *tokenService) IssueWith(ctx context.Context, q database.TxQuerier, user *models.User, client models.ClientInfo) (*models.TokenPair, error) {
	return s.issue(ctx, repository.NewSQLiteSessionRepo(q), user, client)
}

func (s *tokenService) issue(ctx context.Context, sessions repository.SessionRepository, user *models.User, client models.ClientInfo) (*models.TokenPair, error) {
	tokenID := uuid.NewString()

	access, accessExp, err := s.signer.SignAccess(user, tokenID)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.signer.SignRefresh(user.ID, tokenID)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		UserID:    user.ID,
		TokenID:   tokenID,
		UserAgent: clientField(client.UserAgent, maxUserAgentLength),
		IP:        clientField(client.IP, 64),
		CreatedAt: s.signer.Now().UTC(),
		ExpiresAt: refreshExp.UTC(),
	}
	if err := sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return &models.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		TokenID:          tokenID,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *tokenService) VerifyAccess(tokenString string) (*models.AccessClaims, error) {
	return s.signer.VerifyAccess(tokenString)
}

func (s *tokenService) VerifyRefresh(ctx context.Context, refreshToken string) (*models.RefreshClaims, *models.Session, error) {
	claims, err := s.signer.ParseRefresh(refreshToken)
	if err != nil {
		return nil, nil, err
	}

	session, err := s.liveSession(ctx, s.sessions, claims)
	if err != nil {
		return nil, nil, err
	}
	return claims, session, nil
}

// Rotate exchanges a refresh credential for a new pair. Lookup, delete and
// insert run in one transaction; the delete must remove exactly one row,
// so of two concurrent rotations of the same credential only one wins.
func (s *tokenService) Rotate(ctx context.Context, refreshToken string, client models.ClientInfo) (*models.TokenPair, error) {
	claims, err := s.signer.ParseRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	var pair *models.TokenPair
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		sessions := repository.NewSQLiteSessionRepo(tx)

		if _, err := s.liveSession(ctx, sessions, claims); err != nil {
			return err
		}

		removed, err := sessions.DeleteByTokenID(ctx, claims.ID)
		if err != nil {
			return err
		}
		if !removed {
			return pkg.ErrSessionRevoked
		}

		user, err := repository.NewSQLiteUserRepo(tx).GetByID(ctx, claims.UserID)
		if errors.Is(err, pkg.ErrNotFound) {
			return fmt.Errorf("%w: unknown subject", pkg.ErrInvalidToken)
		}
		if err != nil {
			return err
		}

		pair, err = s.issue(ctx, sessions, user, client)
		return err
	})
	if err != nil {
		if errors.Is(err, pkg.ErrSessionRevoked) {
			s.log.Warn().Int64("user_id", claims.UserID).Str("jti", claims.ID).Msg("refresh with revoked session")
		}
		return nil, err
	}

	return pair, nil
}

func (s *tokenService) Revoke(ctx context.Context, tokenID string) error {
	if tokenID == "" {
		return nil
	}
	_, err := s.sessions.DeleteByTokenID(ctx, tokenID)
	return err
}

func (s *tokenService) RevokeAll(ctx context.Context, userID int64) (int64, error) {
	n, err := s.sessions.DeleteByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}

	s.log.Info().Int64("user_id", userID).Int64("sessions", n).Msg("all sessions revoked")
	if s.hub != nil {
		s.hub.BroadcastToUser(userID, ws.Event{
			Op:   ws.OpSessionsRevoked,
			Data: ws.SessionsRevokedData{Count: n},
		})
	}
	return n, nil
}

// ListSessions hides rows past their expiry; they are harmless but no
// longer usable.
func (s *tokenService) ListSessions(ctx context.Context, userID int64, currentTokenID string) ([]models.Session, error) {
	all, err := s.sessions.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.signer.Now()
	live := make([]models.Session, 0, len(all))
	for _, session := range all {
		if !session.ExpiresAt.After(now) {
			continue
		}
		session.Current = currentTokenID != "" && session.TokenID == currentTokenID
		live = append(live, session)
	}
	return live, nil
}

func (s *tokenService) liveSession(ctx context.Context, sessions repository.SessionRepository, claims *models.RefreshClaims) (*models.Session, error) {
	session, err := sessions.GetByTokenID(ctx, claims.ID)
	if errors.Is(err, pkg.ErrNotFound) {
		return nil, pkg.ErrSessionRevoked
	}
	if err != nil {
		return nil, err
	}
	if session.UserID != claims.UserID {
		return nil, fmt.Errorf("%w: subject mismatch", pkg.ErrInvalidToken)
	}
	return session, nil
}

func clientField(v string, limit int) *string {
	if v == "" {
		return nil
	}
	if utf8.RuneCountInString(v) > limit {
		v = string([]rune(v)[:limit])
	}
	return &v
}
