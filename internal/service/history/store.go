// Package history persists generation requests and their results to
// PostgreSQL. Rows land in two tables: one per request (status lifecycle) and
// one per completed result set.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/kapu/snsgen-go/internal/domain"
	"github.com/kapu/snsgen-go/pkg/errors"
)

type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

func NewStore(cfg Config, logger *zap.Logger) (*Store, error) {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, sslMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.NewStorageError("failed to open postgres", "open", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.NewStorageError("failed to ping postgres", "ping", err)
	}

	logger.Info("PostgreSQL connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
	)

	return &Store{
		db:     db,
		logger: logger,
	}, nil
}

// EnsureSchema creates the history tables when they are missing. Idempotent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS generation_requests (
			id BIGSERIAL PRIMARY KEY,
			request_id TEXT NOT NULL UNIQUE,
			user_id TEXT NOT NULL,
			account_id TEXT NOT NULL DEFAULT '',
			sns TEXT NOT NULL,
			post_type TEXT NOT NULL,
			inputs JSONB NOT NULL,
			status TEXT NOT NULL DEFAULT 'queued',
			error_message TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			completed_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS generation_results (
			id BIGSERIAL PRIMARY KEY,
			request_id TEXT NOT NULL REFERENCES generation_requests(request_id),
			draft TEXT NOT NULL,
			alt_versions JSONB NOT NULL,
			hashtags JSONB NOT NULL,
			checks JSONB NOT NULL,
			provider TEXT NOT NULL DEFAULT '',
			model TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_generation_requests_user
			ON generation_requests (user_id, created_at DESC)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.NewStorageError("failed to ensure schema", "schema", err)
		}
	}
	return nil
}

// SaveRequest records a new invocation in the queued state.
func (s *Store) SaveRequest(ctx context.Context, record *domain.GenerationRecord) error {
	inputsJSON, err := json.Marshal(record.Inputs)
	if err != nil {
		return errors.NewStorageError("failed to encode inputs", "save_request", err)
	}

	query := `
		INSERT INTO generation_requests (request_id, user_id, account_id, sns, post_type, inputs, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = s.db.ExecContext(ctx, query,
		record.RequestID, record.UserID, record.AccountID,
		string(record.Platform), string(record.PostType),
		inputsJSON, string(domain.StatusQueued),
	)
	if err != nil {
		s.logger.Error("Failed to save generation request",
			zap.String("request_id", record.RequestID), zap.Error(err))
		return errors.NewStorageError("failed to insert request", "save_request", err)
	}

	return nil
}

// MarkProcessing flips a request into the processing state.
func (s *Store) MarkProcessing(ctx context.Context, requestID string) error {
	return s.setStatus(ctx, requestID, domain.StatusProcessing, "")
}

// MarkFailed records a terminal failure with its message.
func (s *Store) MarkFailed(ctx context.Context, requestID string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return s.setStatus(ctx, requestID, domain.StatusFailed, msg)
}

func (s *Store) setStatus(ctx context.Context, requestID string, status domain.RequestStatus, errorMessage string) error {
	query := `
		UPDATE generation_requests
		SET status = $2,
		    error_message = $3,
		    completed_at = CASE WHEN $2 IN ('completed', 'failed') THEN now() ELSE completed_at END
		WHERE request_id = $1
	`

	if _, err := s.db.ExecContext(ctx, query, requestID, string(status), errorMessage); err != nil {
		s.logger.Error("Failed to update request status",
			zap.String("request_id", requestID),
			zap.String("status", string(status)),
			zap.Error(err))
		return errors.NewStorageError("failed to update status", "set_status", err)
	}
	return nil
}

// SaveResult stores the completed draft set and marks the request completed.
func (s *Store) SaveResult(ctx context.Context, requestID string, result *domain.GeneratedResult, checks *domain.QualityReport, provider, model string) error {
	altVersions, err := json.Marshal([]string{result.Alt1, result.Alt2, result.ShortMain})
	if err != nil {
		return errors.NewStorageError("failed to encode alt versions", "save_result", err)
	}

	hashtags, err := json.Marshal(result.Hashtags)
	if err != nil {
		return errors.NewStorageError("failed to encode hashtags", "save_result", err)
	}

	checksJSON, err := json.Marshal(checks)
	if err != nil {
		return errors.NewStorageError("failed to encode checks", "save_result", err)
	}

	query := `
		INSERT INTO generation_results (request_id, draft, alt_versions, hashtags, checks, provider, model)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if _, err := s.db.ExecContext(ctx, query,
		requestID, result.Main, altVersions, hashtags, checksJSON, provider, model,
	); err != nil {
		s.logger.Error("Failed to save generation result",
			zap.String("request_id", requestID), zap.Error(err))
		return errors.NewStorageError("failed to insert result", "save_result", err)
	}

	return s.setStatus(ctx, requestID, domain.StatusCompleted, "")
}

// ListRecent returns the user's latest completed generations, newest first.
func (s *Store) ListRecent(ctx context.Context, userID string, limit int) ([]*domain.GenerationRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT r.request_id, r.user_id, r.account_id, r.sns, r.post_type,
		       r.inputs, r.status, r.error_message, r.created_at, r.completed_at,
		       res.draft, res.alt_versions, res.hashtags, res.checks, res.provider, res.model
		FROM generation_requests r
		LEFT JOIN generation_results res ON res.request_id = r.request_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, errors.NewStorageError("failed to query history", "list_recent", err)
	}
	defer rows.Close()

	var records []*domain.GenerationRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError("failed to read history rows", "list_recent", err)
	}

	return records, nil
}

func scanRecord(rows *sql.Rows) (*domain.GenerationRecord, error) {
	var (
		record       domain.GenerationRecord
		sns          string
		postType     string
		inputsJSON   []byte
		status       string
		completedAt  sql.NullTime
		draft        sql.NullString
		altVersions  []byte
		hashtagsJSON []byte
		checksJSON   []byte
		provider     sql.NullString
		model        sql.NullString
	)

	if err := rows.Scan(
		&record.RequestID, &record.UserID, &record.AccountID, &sns, &postType,
		&inputsJSON, &status, &record.ErrorMessage, &record.CreatedAt, &completedAt,
		&draft, &altVersions, &hashtagsJSON, &checksJSON, &provider, &model,
	); err != nil {
		return nil, errors.NewStorageError("failed to scan history row", "list_recent", err)
	}

	record.Platform = domain.Platform(sns)
	record.PostType = domain.PostType(postType)
	record.Status = domain.RequestStatus(status)

	if err := json.Unmarshal(inputsJSON, &record.Inputs); err != nil {
		return nil, errors.NewStorageError("failed to decode inputs", "list_recent", err)
	}
	if completedAt.Valid {
		record.CompletedAt = &completedAt.Time
	}

	if draft.Valid {
		result := &domain.GeneratedResult{Main: draft.String}

		var alts []string
		if len(altVersions) > 0 {
			if err := json.Unmarshal(altVersions, &alts); err != nil {
				return nil, errors.NewStorageError("failed to decode alt versions", "list_recent", err)
			}
		}
		if len(alts) > 0 {
			result.Alt1 = alts[0]
		}
		if len(alts) > 1 {
			result.Alt2 = alts[1]
		}
		if len(alts) > 2 {
			result.ShortMain = alts[2]
		}

		if len(hashtagsJSON) > 0 {
			if err := json.Unmarshal(hashtagsJSON, &result.Hashtags); err != nil {
				return nil, errors.NewStorageError("failed to decode hashtags", "list_recent", err)
			}
		}

		if len(checksJSON) > 0 {
			var checks domain.QualityReport
			if err := json.Unmarshal(checksJSON, &checks); err != nil {
				return nil, errors.NewStorageError("failed to decode checks", "list_recent", err)
			}
			record.Checks = &checks
		}

		record.Result = result
		record.Provider = provider.String
		record.Model = model.String
	}

	return &record, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
