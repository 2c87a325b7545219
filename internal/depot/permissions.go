package depot

import (
	"fmt"

	"depot/internal/database/sqlc"
)

// Capability names one of the three per-file access rights.
type Capability string

const (
	CapabilityRead   Capability = "read"
	CapabilityWrite  Capability = "write"
	CapabilityDelete Capability = "delete"
)

// Grant creates or fully replaces the grant row for (fileID, granteeID).
// There is no partial update: all three flags are written every time.
// Ownership is re-verified against the file registry on every call.
func (s *Service) Grant(ownerID, fileID, granteeID string, canRead, canWrite, canDelete bool) (*sqlc.FilePermission, error) {
	file, err := s.database.FindFileByID(fileID)
	if err != nil {
		return nil, fmt.Errorf("finding file: %w", err)
	}
	if file == nil {
		return nil, fmt.Errorf("%w: file %s", ErrNotFound, fileID)
	}
	if file.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: only the owner can grant permissions", ErrPermissionDenied)
	}

	grant, err := s.database.UpsertPermission(fileID, granteeID, canRead, canWrite, canDelete)
	if err != nil {
		return nil, fmt.Errorf("upserting permission: %w", err)
	}

	s.logger.Info("permission granted", "file", fileID, "grantee", granteeID,
		"read", canRead, "write", canWrite, "delete", canDelete)
	return grant, nil
}

// Check reports whether userID holds the named capability on fileID.
// Ownership implies all capabilities regardless of any stored grant row.
// A missing grant row or an unknown capability yields false, never an error.
func (s *Service) Check(userID, fileID string, capability Capability) (bool, error) {
	file, err := s.database.FindFileByID(fileID)
	if err != nil {
		return false, fmt.Errorf("finding file: %w", err)
	}
	if file != nil && file.OwnerID == userID {
		return true, nil
	}

	grant, err := s.database.FindPermission(fileID, userID)
	if err != nil {
		return false, fmt.Errorf("finding permission: %w", err)
	}
	if grant == nil {
		return false, nil
	}

	switch capability {
	case CapabilityRead:
		return grant.CanRead, nil
	case CapabilityWrite:
		return grant.CanWrite, nil
	case CapabilityDelete:
		return grant.CanDelete, nil
	default:
		return false, nil
	}
}
