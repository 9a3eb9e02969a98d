package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/akozadaev/go_travel_recommender/internal/models"
)

// chatHistorySchema создаёт таблицу истории чата, если её ещё нет.
const chatHistorySchema = `CREATE TABLE IF NOT EXISTS chat_history (
	id                    BIGSERIAL PRIMARY KEY,
	timestamp             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	user_message          TEXT NOT NULL,
	bot_response          TEXT NOT NULL,
	extracted_features    JSONB,
	recommended_locations JSONB,
	user_ip               VARCHAR(50),
	session_id            VARCHAR(100)
);
CREATE INDEX IF NOT EXISTS idx_chat_history_timestamp ON chat_history (timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_chat_history_session ON chat_history (session_id)`

// PostgresStorage хранит историю чата в PostgreSQL.
type PostgresStorage struct {
	db *sql.DB // Подключение к базе данных PostgreSQL
}

// NewPostgresStorage создает новый экземпляр PostgresStorage и устанавливает подключение к БД.
// DSN должен быть в формате: "host=... port=... user=... password=... dbname=... sslmode=..."
func NewPostgresStorage(dsn string) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewPostgresStorageFromDB(db), nil
}

// NewPostgresStorageFromDB оборачивает уже открытое подключение.
func NewPostgresStorageFromDB(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

// Close закрывает подключение к базе данных PostgreSQL.
func (ps *PostgresStorage) Close() error {
	return ps.db.Close()
}

// Ping проверяет доступность базы данных.
func (ps *PostgresStorage) Ping(ctx context.Context) error {
	return ps.db.PingContext(ctx)
}

// EnsureSchema создаёт таблицу chat_history и индексы.
func (ps *PostgresStorage) EnsureSchema(ctx context.Context) error {
	if _, err := ps.db.ExecContext(ctx, chatHistorySchema); err != nil {
		return fmt.Errorf("failed to create chat_history schema: %w", err)
	}
	return nil
}

// SaveChat сохраняет запись истории чата и заполняет её ID.
// ExtractedFeatures и RecommendedLocations должны содержать JSON.
func (ps *PostgresStorage) SaveChat(ctx context.Context, rec *models.ChatRecord) error {
	query := `INSERT INTO chat_history
		(timestamp, user_message, bot_response, extracted_features, recommended_locations, user_ip, session_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := ps.db.QueryRowContext(ctx, query,
		rec.Timestamp,
		rec.UserMessage,
		rec.BotResponse,
		nullJSON(rec.ExtractedFeatures),
		nullJSON(rec.RecommendedLocations),
		rec.UserIP,
		rec.SessionID,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("failed to insert chat record: %w", err)
	}

	return nil
}

// ListHistory возвращает последние limit записей истории, новые первыми.
func (ps *PostgresStorage) ListHistory(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	query := `SELECT id, timestamp, user_message, bot_response, COALESCE(session_id, '')
		FROM chat_history ORDER BY timestamp DESC LIMIT $1`

	rows, err := ps.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat history: %w", err)
	}
	defer rows.Close()

	history := make([]models.HistoryEntry, 0, limit)
	for rows.Next() {
		var h models.HistoryEntry
		if err := rows.Scan(
			&h.ID,
			&h.Timestamp,
			&h.UserMessage,
			&h.BotResponse,
			&h.SessionID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chat record: %w", err)
		}
		history = append(history, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return history, nil
}

func nullJSON(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
