package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"educreate/internal/domain"
	"educreate/internal/domain/models"
	"educreate/internal/domain/repositories"
	"educreate/internal/hierarchy"
)

var folderColumnNames = []string{
	"id", "user_id", "parent_id", "name", "type", "depth", "path",
	"color", "icon", "description", "created_at", "updated_at", "deleted_at",
}

// folderColumns renders the select list, optionally qualified by a table alias.
func folderColumns(alias string) string {
	if alias == "" {
		return strings.Join(folderColumnNames, ", ")
	}
	cols := make([]string, len(folderColumnNames))
	for i, c := range folderColumnNames {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var f models.Folder
	err := row.Scan(
		&f.ID,
		&f.UserID,
		&f.ParentID,
		&f.Name,
		&f.Type,
		&f.Depth,
		&f.Path,
		&f.Color,
		&f.Icon,
		&f.Description,
		&f.CreatedAt,
		&f.UpdatedAt,
		&f.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func collectFolders(rows pgx.Rows) ([]models.Folder, error) {
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}
	return folders, nil
}

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, parent_id, name, type, depth, path, color, icon, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		folder.ID,
		folder.UserID,
		folder.ParentID,
		folder.Name,
		folder.Type,
		folder.Depth,
		folder.Path,
		folder.Color,
		folder.Icon,
		folder.Description,
		folder.CreatedAt,
		folder.UpdatedAt,
	)
	if err != nil {
		return r.mapWriteError(err, folder)
	}

	return nil
}

// GetByID retrieves a live folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND deleted_at IS NULL`,
		folderColumns(""), r.tables.Folders)
	return r.getOne(ctx, id, query)
}

// GetByIDIncludingDeleted retrieves a folder whether or not it is in the recycle bin
func (r *PostgresFolderRepository) GetByIDIncludingDeleted(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, folderColumns(""), r.tables.Folders)
	return r.getOne(ctx, id, query)
}

func (r *PostgresFolderRepository) getOne(ctx context.Context, id, query string) (*models.Folder, error) {
	executor := GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) || IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}
	return folder, nil
}

// ListByUser returns the user's live folders ordered by depth then name
func (r *PostgresFolderRepository) ListByUser(ctx context.Context, userID string, folderType *models.FolderType) ([]models.Folder, error) {
	var query string
	var args []interface{}

	if folderType == nil {
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE user_id = $1 AND deleted_at IS NULL
			ORDER BY depth ASC, name ASC
		`, folderColumns(""), r.tables.Folders)
		args = append(args, userID)
	} else {
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE user_id = $1 AND type = $2 AND deleted_at IS NULL
			ORDER BY depth ASC, name ASC
		`, folderColumns(""), r.tables.Folders)
		args = append(args, userID, *folderType)
	}

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return collectFolders(rows)
}

// ListChildren lists immediate live child folders
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, userID string, parentID *string, folderType models.FolderType) ([]models.Folder, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE user_id = $1 AND type = $2 AND parent_id IS NULL AND deleted_at IS NULL
			ORDER BY name ASC
		`, folderColumns(""), r.tables.Folders)
		args = append(args, userID, folderType)
	} else {
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE user_id = $1 AND type = $2 AND parent_id = $3 AND deleted_at IS NULL
			ORDER BY name ASC
		`, folderColumns(""), r.tables.Folders)
		args = append(args, userID, folderType, *parentID)
	}

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folder children: %w", err)
	}
	return collectFolders(rows)
}

// FindSibling returns the live folder named q.Name under q.ParentID, or nil
func (r *PostgresFolderRepository) FindSibling(ctx context.Context, q repositories.SiblingQuery) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1
		  AND type = $2
		  AND parent_id IS NOT DISTINCT FROM $3::uuid
		  AND name = $4
		  AND id::text <> $5
		  AND deleted_at IS NULL
		LIMIT 1
	`, folderColumns(""), r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, q.UserID, q.Type, q.ParentID, q.Name, q.ExcludeID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, nil // Not found, not an error
		}
		return nil, fmt.Errorf("find sibling: %w", err)
	}
	return folder, nil
}

// Update writes the editable attributes of a folder
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, color = $2, icon = $3, description = $4, updated_at = $5
		WHERE id = $6 AND deleted_at IS NULL
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		folder.Name,
		folder.Color,
		folder.Icon,
		folder.Description,
		folder.UpdatedAt,
		folder.ID,
	)
	if err != nil {
		return r.mapWriteError(err, folder)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// SetParent reparents a live folder
func (r *PostgresFolderRepository) SetParent(ctx context.Context, id string, parentID *string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET parent_id = $1, updated_at = now()
		WHERE id = $2 AND deleted_at IS NULL
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, parentID, id)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      "a folder with the same name already exists in the target location",
				ResourceType: "folder",
				ResourceID:   id,
			}
		}
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("parent folder: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("set folder parent: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ApplyHierarchy writes every depth/path change in one statement.
func (r *PostgresFolderRepository) ApplyHierarchy(ctx context.Context, changes []hierarchy.Change) error {
	if len(changes) == 0 {
		return nil
	}

	ids := make([]string, len(changes))
	depths := make([]int32, len(changes))
	paths := make([]string, len(changes))
	detach := make([]bool, len(changes))
	names := make([]string, len(changes))
	for i, c := range changes {
		ids[i] = c.ID
		depths[i] = int32(c.Depth)
		paths[i] = c.Path
		detach[i] = c.ClearParent
		names[i] = c.Name
	}

	query := fmt.Sprintf(`
		UPDATE %s AS f
		SET depth = u.depth,
		    path = u.path,
		    parent_id = CASE WHEN u.detach THEN NULL ELSE f.parent_id END,
		    name = COALESCE(NULLIF(u.name, ''), f.name),
		    updated_at = now()
		FROM unnest($1::text[], $2::int[], $3::text[], $4::bool[], $5::text[]) AS u(id, depth, path, detach, name)
		WHERE f.id = u.id::uuid
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, ids, depths, paths, detach, names)
	if err != nil {
		if IsPgCheckViolation(err) {
			return fmt.Errorf("apply hierarchy: %w", domain.ErrDepthLimitExceeded)
		}
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      "hierarchy update would duplicate a sibling folder name",
				ResourceType: "folder",
			}
		}
		return fmt.Errorf("apply hierarchy: %w", err)
	}
	if n := result.RowsAffected(); n != int64(len(changes)) {
		return fmt.Errorf("apply hierarchy: updated %d of %d folders", n, len(changes))
	}
	return nil
}

// SoftDeleteSubtree marks the folder at path and its live descendants deleted
func (r *PostgresFolderRepository) SoftDeleteSubtree(ctx context.Context, userID, path string, at time.Time) (int, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET deleted_at = $3, updated_at = $3
		WHERE user_id = $1
		  AND (path = $2 OR path LIKE $2 || '/%%')
		  AND deleted_at IS NULL
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, userID, path, at)
	if err != nil {
		return 0, fmt.Errorf("soft delete folders: %w", err)
	}
	return int(result.RowsAffected()), nil
}

// ListDeleted returns the roots of deleted subtrees
func (r *PostgresFolderRepository) ListDeleted(ctx context.Context, userID string, folderType models.FolderType) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s f
		LEFT JOIN %s p ON p.id = f.parent_id
		WHERE f.user_id = $1
		  AND f.type = $2
		  AND f.deleted_at IS NOT NULL
		  AND (p.id IS NULL OR p.deleted_at IS NULL OR p.deleted_at <> f.deleted_at)
		ORDER BY f.deleted_at DESC, f.name ASC
	`, folderColumns("f"), r.tables.Folders, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID, folderType)
	if err != nil {
		return nil, fmt.Errorf("list deleted folders: %w", err)
	}
	return collectFolders(rows)
}

// RestoreSubtree brings back the folder at path and whatever was deleted with it
func (r *PostgresFolderRepository) RestoreSubtree(ctx context.Context, userID, path string, deletedAt time.Time) (int, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET deleted_at = NULL, updated_at = now()
		WHERE user_id = $1
		  AND (path = $2 OR path LIKE $2 || '/%%')
		  AND deleted_at = $3
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, userID, path, deletedAt)
	if err != nil {
		if IsPgDuplicateError(err) {
			return 0, &domain.ConflictError{
				Message:      "a live folder with the same name already exists at the restore location",
				ResourceType: "folder",
			}
		}
		return 0, fmt.Errorf("restore folders: %w", err)
	}
	return int(result.RowsAffected()), nil
}

// ListUserIDs returns every user owning at least one live folder
func (r *PostgresFolderRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT DISTINCT user_id FROM %s WHERE deleted_at IS NULL ORDER BY user_id`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan user id: %w", err)
	}
	return ids, nil
}

// LockHierarchy takes a transaction-scoped advisory lock keyed by user.
// Concurrent moves for the same user queue here; other users are unaffected.
func (r *PostgresFolderRepository) LockHierarchy(ctx context.Context, userID string) error {
	tx := txFromContext(ctx)
	if tx == nil {
		return errors.New("lock hierarchy: no transaction in context")
	}
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID); err != nil {
		return fmt.Errorf("lock hierarchy: %w", err)
	}
	return nil
}

func (r *PostgresFolderRepository) mapWriteError(err error, folder *models.Folder) error {
	switch {
	case IsPgDuplicateError(err):
		return &domain.ConflictError{
			Message:      fmt.Sprintf("folder '%s' already exists in this location", folder.Name),
			ResourceType: "folder",
			ResourceID:   folder.ID,
		}
	case IsPgForeignKeyError(err):
		return fmt.Errorf("parent folder: %w", domain.ErrNotFound)
	case IsPgCheckViolation(err):
		return fmt.Errorf("folder '%s': %w", folder.Name, domain.ErrValidation)
	}
	return fmt.Errorf("write folder: %w", err)
}
