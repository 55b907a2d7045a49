package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wexford-labs/widgetry/internal/database"
	"github.com/wexford-labs/widgetry/internal/models"
)

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{pool: db.Pool}
}

const profileColumns = `id, user_id, company, website, location, status, skills, bio, github_username, social, experience, education, created_at, updated_at`

func scanProfileRow(scanner rowScanner) (*models.Profile, error) {
	var (
		profile    models.Profile
		social     []byte
		experience []byte
		education  []byte
	)
	err := scanner.Scan(
		&profile.ID, &profile.UserID,
		&profile.Company, &profile.Website, &profile.Location, &profile.Status,
		&profile.Skills, &profile.Bio, &profile.GithubUsername,
		&social, &experience, &education,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	if err := json.Unmarshal(social, &profile.Social); err != nil {
		return nil, fmt.Errorf("failed to decode social links: %w", err)
	}
	if err := json.Unmarshal(experience, &profile.Experience); err != nil {
		return nil, fmt.Errorf("failed to decode experience: %w", err)
	}
	if err := json.Unmarshal(education, &profile.Education); err != nil {
		return nil, fmt.Errorf("failed to decode education: %w", err)
	}
	return &profile, nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return scanProfileRow(r.pool.QueryRow(ctx, query, id))
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	return scanProfileRow(r.pool.QueryRow(ctx, query, userID))
}

func marshalProfileJSON(profile *models.Profile) (social, experience, education []byte, err error) {
	if profile.Experience == nil {
		profile.Experience = []models.Experience{}
	}
	if profile.Education == nil {
		profile.Education = []models.Education{}
	}
	if social, err = json.Marshal(profile.Social); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode social links: %w", err)
	}
	if experience, err = json.Marshal(profile.Experience); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode experience: %w", err)
	}
	if education, err = json.Marshal(profile.Education); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode education: %w", err)
	}
	return social, experience, education, nil
}

// Upsert creates the caller's profile or overwrites the existing one.
// A user has at most one profile, keyed by user_id.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	social, experience, education, err := marshalProfileJSON(profile)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	query := `
		INSERT INTO profiles (id, user_id, company, website, location, status, skills, bio, github_username, social, experience, education, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
		ON CONFLICT (user_id) DO UPDATE SET
			company = EXCLUDED.company,
			website = EXCLUDED.website,
			location = EXCLUDED.location,
			status = EXCLUDED.status,
			skills = EXCLUDED.skills,
			bio = EXCLUDED.bio,
			github_username = EXCLUDED.github_username,
			social = EXCLUDED.social,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + profileColumns

	return scanProfileRow(r.pool.QueryRow(ctx, query,
		uuid.New().String(), profile.UserID,
		profile.Company, profile.Website, profile.Location, profile.Status,
		profile.Skills, profile.Bio, profile.GithubUsername,
		social, experience, education, now,
	))
}

// ReplaceExperience swaps the full experience list. Entries are stored as
// a jsonb array so add and remove both rewrite the column.
func (r *ProfileRepository) ReplaceExperience(ctx context.Context, userID string, entries []models.Experience) (*models.Profile, error) {
	if entries == nil {
		entries = []models.Experience{}
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to encode experience: %w", err)
	}

	query := `
		UPDATE profiles SET experience = $1, updated_at = now()
		WHERE user_id = $2
		RETURNING ` + profileColumns

	return scanProfileRow(r.pool.QueryRow(ctx, query, payload, userID))
}

// ReplaceEducation swaps the full education list.
func (r *ProfileRepository) ReplaceEducation(ctx context.Context, userID string, entries []models.Education) (*models.Profile, error) {
	if entries == nil {
		entries = []models.Education{}
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to encode education: %w", err)
	}

	query := `
		UPDATE profiles SET education = $1, updated_at = now()
		WHERE user_id = $2
		RETURNING ` + profileColumns

	return scanProfileRow(r.pool.QueryRow(ctx, query, payload, userID))
}

func (r *ProfileRepository) DeleteByUserID(ctx context.Context, userID string) error {
	query := `DELETE FROM profiles WHERE user_id = $1`

	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		return database.MapPostgresError(err)
	}
	// Absence is fine: deleting an account without a profile is not an error.
	return nil
}
