package depot

import (
	"database/sql"
	"fmt"
	"time"

	"depot/internal/database/sqlc"
)

// SearchParams are the optional search filters. All supplied filters are
// AND-combined; zero values (empty string, nil pointer) disable a filter.
type SearchParams struct {
	Query       string // case-insensitive substring on name or description
	ContentType string
	MinSize     *int64
	MaxSize     *int64
	StartDate   *time.Time
	EndDate     *time.Time
}

// Search returns the owner's files matching all supplied filters, in
// insertion order.
func (s *Service) Search(ownerID string, p SearchParams) ([]sqlc.File, error) {
	arg := sqlc.SearchFilesParams{
		OwnerID:     ownerID,
		Query:       p.Query,
		ContentType: p.ContentType,
		MinSize:     -1,
		MaxSize:     -1,
	}
	if p.MinSize != nil {
		arg.MinSize = *p.MinSize
	}
	if p.MaxSize != nil {
		arg.MaxSize = *p.MaxSize
	}
	if p.StartDate != nil {
		arg.StartDate = sql.NullTime{Time: *p.StartDate, Valid: true}
	}
	if p.EndDate != nil {
		arg.EndDate = sql.NullTime{Time: *p.EndDate, Valid: true}
	}

	files, err := s.database.SearchFiles(arg)
	if err != nil {
		return nil, fmt.Errorf("searching files: %w", err)
	}
	return files, nil
}
