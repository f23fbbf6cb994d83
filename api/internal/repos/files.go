package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"warehouse-ops-dashboard/api/internal/models"
)

// ErrNotFound marks a lookup that matched no row.
var ErrNotFound = errors.New("not found")

type FilesRepo struct {
	db DBTX
}

func NewFilesRepo(db DBTX) *FilesRepo {
	return &FilesRepo{db: db}
}

func (r *FilesRepo) InsertDocument(ctx context.Context, doc models.FileDocument) (models.FileDocument, error) {
	if doc.FileID == uuid.Nil {
		doc.FileID = uuid.New()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO file_documents (
			file_id, document_id, file_name, headers, rows, uploaded_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		doc.FileID,
		doc.DocumentID,
		doc.FileName,
		doc.Headers,
		doc.Rows,
		nullIfEmpty(doc.UploadedBy),
		doc.CreatedAt,
	)
	if err != nil {
		return models.FileDocument{}, err
	}
	return doc, nil
}

// ListDocuments returns document metadata without row payloads, newest
// first.
func (r *FilesRepo) ListDocuments(ctx context.Context) ([]models.FileDocument, error) {
	rows, err := r.db.Query(ctx, `
		SELECT file_id, document_id, file_name, headers, uploaded_by, created_at
		FROM file_documents
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.FileDocument, 0, 16)
	for rows.Next() {
		var doc models.FileDocument
		var uploadedBy *string
		if err := rows.Scan(&doc.FileID, &doc.DocumentID, &doc.FileName, &doc.Headers, &uploadedBy, &doc.CreatedAt); err != nil {
			return nil, err
		}
		if uploadedBy != nil {
			doc.UploadedBy = *uploadedBy
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (r *FilesRepo) GetDocument(ctx context.Context, fileID uuid.UUID) (models.FileDocument, error) {
	var doc models.FileDocument
	var uploadedBy *string
	err := r.db.QueryRow(ctx, `
		SELECT file_id, document_id, file_name, headers, rows, uploaded_by, created_at
		FROM file_documents
		WHERE file_id = $1
	`, fileID).Scan(&doc.FileID, &doc.DocumentID, &doc.FileName, &doc.Headers, &doc.Rows, &uploadedBy, &doc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.FileDocument{}, ErrNotFound
		}
		return models.FileDocument{}, err
	}
	if uploadedBy != nil {
		doc.UploadedBy = *uploadedBy
	}
	return doc, nil
}

func (r *FilesRepo) DeleteDocument(ctx context.Context, fileID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM file_documents WHERE file_id = $1`, fileID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
