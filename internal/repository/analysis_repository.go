package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fadilmartias/resume-analyzer/internal/apperr"
	"github.com/fadilmartias/resume-analyzer/internal/config"
	"github.com/fadilmartias/resume-analyzer/internal/logger"
	"github.com/fadilmartias/resume-analyzer/internal/model"
	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

// listColumns is every column except raw_text.
var listColumns = []string{"id", "name", "email", "ai_summary", "skills", "suggested_roles", "overall_score", "created_at"}

var arrayColumns = map[string]string{
	FieldSkills:         "skills",
	FieldSuggestedRoles: "suggested_roles",
}

type AnalysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) *AnalysisRepository {
	return &AnalysisRepository{db}
}

// ConnectDB opens the pool and sizes it for the environment.
func ConnectDB(dbConfig *config.DBConfig, appConfig *config.AppConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dbConfig.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("could not get database instance: %w", err)
	}
	if !appConfig.IsProduction() {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}
	return db, nil
}

// Migrate applies the embedded goose migrations.
func Migrate(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.Up(sqlDB, "migrations"); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	logger.Info().Str("component", "goose").Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (gooseLogger) Fatalf(format string, v ...any) {
	logger.Fatal().Str("component", "goose").Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Save assigns the record's ID and CreatedAt and inserts it.
func (r *AnalysisRepository) Save(ctx context.Context, a *model.Analysis) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return apperr.PersistenceFailed("save", err)
	}
	return nil
}

func (r *AnalysisRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Analysis, error) {
	var a model.Analysis
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("find", id.String())
	}
	if err != nil {
		return nil, apperr.PersistenceFailed("find", err)
	}
	return &a, nil
}

// Find returns one page of matching records without their raw text.
func (r *AnalysisRepository) Find(ctx context.Context, filter AnalysisFilter, s AnalysisSort, skip, limit int) ([]model.Analysis, error) {
	var out []model.Analysis
	q := applyFilter(r.db.WithContext(ctx).Model(&model.Analysis{}), filter).
		Select(listColumns).
		Order(orderClause(s)).
		Offset(skip).
		Limit(limit)
	if err := q.Find(&out).Error; err != nil {
		return nil, apperr.PersistenceFailed("query", err)
	}
	return out, nil
}

func (r *AnalysisRepository) Count(ctx context.Context, filter AnalysisFilter) (int64, error) {
	var n int64
	if err := applyFilter(r.db.WithContext(ctx).Model(&model.Analysis{}), filter).Count(&n).Error; err != nil {
		return 0, apperr.PersistenceFailed("count", err)
	}
	return n, nil
}

// DistinctValues returns the sorted set of non-blank values of an array field.
func (r *AnalysisRepository) DistinctValues(ctx context.Context, field string) ([]string, error) {
	col, ok := arrayColumns[field]
	if !ok {
		return nil, apperr.InvalidInput("distinct", "unknown field "+field)
	}
	var values []string
	err := r.db.WithContext(ctx).
		Raw(fmt.Sprintf("SELECT DISTINCT v FROM analyses, unnest(%s) AS v WHERE btrim(v) <> ''", col)).
		Scan(&values).Error
	if err != nil {
		return nil, apperr.PersistenceFailed("distinct", err)
	}
	sort.Strings(values)
	if values == nil {
		values = []string{}
	}
	return values, nil
}

func applyFilter(q *gorm.DB, f AnalysisFilter) *gorm.DB {
	if clause, args := anyOfClause("skills", f.Skills); clause != "" {
		q = q.Where(clause, args...)
	}
	if clause, args := anyOfClause("suggested_roles", f.SuggestedRoles); clause != "" {
		q = q.Where(clause, args...)
	}
	if f.MinScore != nil {
		q = q.Where("overall_score >= ?", *f.MinScore)
	}
	if f.MaxScore != nil {
		q = q.Where("overall_score <= ?", *f.MaxScore)
	}
	return q
}

// anyOfClause matches rows where some element of col contains some term. The
// trigram-indexed prefilter narrows candidates; EXISTS checks a single element matches.
func anyOfClause(col string, terms []string) (string, []any) {
	if len(terms) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(terms))
	args := make([]any, 0, 2*len(terms))
	for _, term := range terms {
		p := likePattern(term)
		parts = append(parts, fmt.Sprintf("(analyses_text_array(%[1]s) ILIKE ? AND EXISTS (SELECT 1 FROM unnest(%[1]s) AS elem WHERE elem ILIKE ?))", col))
		args = append(args, p, p)
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

func orderClause(s AnalysisSort) string {
	dir := "DESC"
	if !s.desc() {
		dir = "ASC"
	}
	if s.Field == SortByOverallScore {
		return fmt.Sprintf("overall_score %[1]s, created_at %[1]s, id %[1]s", dir)
	}
	return fmt.Sprintf("created_at %[1]s, id %[1]s", dir)
}
