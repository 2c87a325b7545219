package depot

import (
	"fmt"

	"depot/internal/database/sqlc"
)

// Metadata returns all key/value entries attached to a file.
func (s *Service) Metadata(fileID string) ([]*sqlc.MetadataEntry, error) {
	if err := s.requireFile(fileID); err != nil {
		return nil, err
	}
	entries, err := s.database.ListMetadata(fileID)
	if err != nil {
		return nil, fmt.Errorf("listing metadata: %w", err)
	}
	return entries, nil
}

// MetadataValue returns one metadata entry by key.
func (s *Service) MetadataValue(fileID, key string) (*sqlc.MetadataEntry, error) {
	if err := s.requireFile(fileID); err != nil {
		return nil, err
	}
	entry, err := s.database.FindMetadata(fileID, key)
	if err != nil {
		return nil, fmt.Errorf("finding metadata: %w", err)
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: metadata key %q on file %s", ErrNotFound, key, fileID)
	}
	return entry, nil
}

// SetMetadata creates or overwrites one metadata entry.
func (s *Service) SetMetadata(fileID, key, value string) (*sqlc.MetadataEntry, error) {
	if err := s.requireFile(fileID); err != nil {
		return nil, err
	}
	if key == "" {
		return nil, fmt.Errorf("%w: metadata key is required", ErrValidation)
	}
	entry, err := s.database.UpsertMetadata(fileID, key, value)
	if err != nil {
		return nil, fmt.Errorf("upserting metadata: %w", err)
	}
	return entry, nil
}

// DeleteMetadata removes one metadata entry by key.
func (s *Service) DeleteMetadata(fileID, key string) error {
	entry, err := s.MetadataValue(fileID, key)
	if err != nil {
		return err
	}
	if err := s.database.DeleteMetadata(fileID, entry.Key); err != nil {
		return fmt.Errorf("deleting metadata: %w", err)
	}
	return nil
}

// requireFile fails with ErrNotFound if the file does not exist.
func (s *Service) requireFile(fileID string) error {
	file, err := s.database.FindFileByID(fileID)
	if err != nil {
		return fmt.Errorf("finding file: %w", err)
	}
	if file == nil {
		return fmt.Errorf("%w: file %s", ErrNotFound, fileID)
	}
	return nil
}
