package pglock

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
)

var (
	// ErrNoTransaction транзакционная блокировка запрошена вне транзакции
	ErrNoTransaction = errors.New("pglock: advisory lock requires a transaction")

	// ErrAcquire не удалось получить блокировку
	ErrAcquire = errors.New("pglock: failed to acquire advisory lock")
)

// Key детерминированный ключ блокировки для namespace и частей ключа
// Один и тот же набор аргументов во всех процессах даёт один и тот же ключ
func Key(namespace string, parts ...interface{}) int64 {
	var b strings.Builder
	b.WriteString(namespace)
	for _, p := range parts {
		b.WriteByte(':')
		fmt.Fprint(&b, p)
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(b.String()))
	return int64(h.Sum64())
}

// AcquireXact берёт pg_advisory_xact_lock в транзакции из контекста
// Блокировка снимается при COMMIT или ROLLBACK
func AcquireXact(ctx context.Context, db dbmetrics.DBExecutor, key int64) error {
	return acquire(ctx, db, "SELECT pg_advisory_xact_lock($1)", key)
}

// AcquireXactShared разделяемый вариант: совместим с другими shared,
// но ждёт снятия эксклюзивной блокировки того же ключа
func AcquireXactShared(ctx context.Context, db dbmetrics.DBExecutor, key int64) error {
	return acquire(ctx, db, "SELECT pg_advisory_xact_lock_shared($1)", key)
}

func acquire(ctx context.Context, db dbmetrics.DBExecutor, query string, key int64) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return ErrNoTransaction
	}

	executor := dbmetrics.GetExecutor(ctx, db)
	if _, err := executor.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("%w: %v", ErrAcquire, err)
	}
	return nil
}
