// Package storage предоставляет доступ к базе данных платформы.
//
// Клиенту нужен единственный агрегирующий запрос — счётчик подписчиков
// здания для страницы здания, — поэтому пакет держит только пул
// соединений pgx и этот запрос. Схемой базы владеет сервер платформы.
package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/magabrotheeeer/tenant-platform-client/internal/config"
)

// Storage — пул соединений с базой данных платформы.
type Storage struct {
	db *pgxpool.Pool
}

// New создаёт пул соединений по настройкам из конфига.
func New(ctx context.Context, cfg config.Storage) (*Storage, error) {
	const op = "storage.New"

	poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Storage{db: pool}, nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() {
	s.db.Close()
}

// BuildingSubscriberCount возвращает число активных подписок на здание.
func (s *Storage) BuildingSubscriberCount(ctx context.Context, bbl string) (int, error) {
	const op = "storage.BuildingSubscriberCount"

	query := `SELECT COUNT(*)
			  FROM building_subscriptions
			  WHERE bbl = $1 AND unsubscribed_at IS NULL`
	var count int
	if err := s.db.QueryRow(ctx, query, bbl).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
