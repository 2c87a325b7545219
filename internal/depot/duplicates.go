package depot

import (
	"fmt"

	"depot/internal/database/sqlc"
)

// DuplicatesForUser groups the user's files by current content hash and
// returns only groups with more than one member. Groups are ordered by hash
// ascending; membership order is insertion order, stable across calls with no
// intervening writes.
func (s *Service) DuplicatesForUser(userID string) ([][]sqlc.File, error) {
	files, err := s.database.ListFilesByOwnerOrderedByHash(userID)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}

	var groups [][]sqlc.File
	var current []sqlc.File
	for _, f := range files {
		if len(current) > 0 && current[0].CurrentHash != f.CurrentHash {
			if len(current) > 1 {
				groups = append(groups, current)
			}
			current = nil
		}
		current = append(current, f)
	}
	if len(current) > 1 {
		groups = append(groups, current)
	}

	return groups, nil
}

// DuplicatesOf returns the user's other files sharing fileID's current hash,
// excluding fileID itself. The file must belong to the user.
func (s *Service) DuplicatesOf(fileID, userID string) ([]sqlc.File, error) {
	file, err := s.ownedFile(fileID, userID)
	if err != nil {
		return nil, err
	}

	dupes, err := s.database.ListFilesByOwnerAndHash(userID, file.CurrentHash, fileID)
	if err != nil {
		return nil, fmt.Errorf("listing duplicates: %w", err)
	}
	return dupes, nil
}
