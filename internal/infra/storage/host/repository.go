package host

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

const tableName = "hosts"

var columns = []string{
	"id",
	"username",
	"email",
	"name",
	"avatar",
	"timezone",
	"default_meeting_duration",
	"google_access_token",
	"google_refresh_token",
	"google_token_expiry",
	"created_at",
	"updated_at",
}

// Repository репозиторий хостов (только чтение)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория хостов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает хоста по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Host, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByUsername получает хоста по публичному имени из ссылки на бронирование
func (r *Repository) GetByUsername(ctx context.Context, username string) (*domain.Host, error) {
	return r.getOne(ctx, "GetByUsername", squirrel.Eq{"username": username})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.Host, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var (
		host                      domain.Host
		avatar                    sql.NullString
		accessToken, refreshToken sql.NullString
		tokenExpiry               sql.NullTime
		createdAt, updatedAt      sql.NullTime
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&host.ID,
		&host.Username,
		&host.Email,
		&host.Name,
		&avatar,
		&host.Timezone,
		&host.DefaultMeetingDuration,
		&accessToken,
		&refreshToken,
		&tokenExpiry,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan host: %v", ErrScanRow, op, err)
	}

	if avatar.Valid {
		host.Avatar = &avatar.String
	}
	if accessToken.Valid {
		host.GoogleAccessToken = &accessToken.String
	}
	if refreshToken.Valid {
		host.GoogleRefreshToken = &refreshToken.String
	}
	if tokenExpiry.Valid {
		host.GoogleTokenExpiry = &tokenExpiry.Time
	}
	host.CreatedAt = createdAt.Time
	host.UpdatedAt = updatedAt.Time

	return &host, nil
}
