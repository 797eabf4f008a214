package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"dsa_portal_backend/platform/apperr"
)

const leadNotFoundMessage = "lead not found"

const leadColumns = `id, reference_code, status, product_type, basic_details, occupation_details,
	financial_details, loan_details, assigned_branch_name, assigned_branch_address,
	is_deleted, deleted_by, deleted_at, created_by, created_at, updated_by, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create inserts a new lead row.
func (r *Repo) Create(ctx context.Context, lead Lead) (Lead, error) {
	basic, occupation, financial, loan, err := marshalDetails(lead)
	if err != nil {
		return Lead{}, err
	}

	query := `
		INSERT INTO leads (id, reference_code, status, product_type, basic_details, occupation_details,
			financial_details, loan_details, assigned_branch_name, assigned_branch_address,
			created_by, created_at, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err = r.pool.Exec(ctx, query,
		lead.ID, lead.ReferenceCode, lead.Status, lead.ProductType, basic, occupation,
		financial, loan, lead.AssignedBranchName, lead.AssignedBranchAddress,
		lead.CreatedBy, lead.CreatedAt, lead.UpdatedBy, lead.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return Lead{}, apperr.Conflict("lead reference code already exists")
		}
		return Lead{}, fmt.Errorf("create lead: %w", err)
	}

	return r.GetByID(ctx, lead.ID)
}

// GetByID retrieves a lead by ID, excluding soft-deleted rows.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1 AND is_deleted = FALSE`

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("get lead by id: %w", err)
	}

	docs, err := r.listDocuments(ctx, id)
	if err != nil {
		return Lead{}, err
	}
	lead.Documents = docs

	return lead, nil
}

// Update rewrites the mutable columns of an existing lead.
func (r *Repo) Update(ctx context.Context, lead Lead) (Lead, error) {
	basic, occupation, financial, loan, err := marshalDetails(lead)
	if err != nil {
		return Lead{}, err
	}

	query := `
		UPDATE leads
		SET status = $2, basic_details = $3, occupation_details = $4, financial_details = $5,
			loan_details = $6, assigned_branch_name = $7, assigned_branch_address = $8,
			updated_by = $9, updated_at = $10
		WHERE id = $1 AND is_deleted = FALSE`

	tag, err := r.pool.Exec(ctx, query,
		lead.ID, lead.Status, basic, occupation, financial, loan,
		lead.AssignedBranchName, lead.AssignedBranchAddress, lead.UpdatedBy, lead.UpdatedAt,
	)
	if err != nil {
		return Lead{}, fmt.Errorf("update lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Lead{}, apperr.NotFound(leadNotFoundMessage)
	}

	return r.GetByID(ctx, lead.ID)
}

// SoftDelete marks a lead deleted without removing the row.
func (r *Repo) SoftDelete(ctx context.Context, id uuid.UUID, actor string, at time.Time) error {
	query := `
		UPDATE leads
		SET is_deleted = TRUE, deleted_by = $2, deleted_at = $3, updated_by = $2, updated_at = $3
		WHERE id = $1 AND is_deleted = FALSE`

	tag, err := r.pool.Exec(ctx, query, id, actor, at)
	if err != nil {
		return fmt.Errorf("soft delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(leadNotFoundMessage)
	}
	return nil
}

// Search lists lead summaries for a creator with optional AND-combined filters.
func (r *Repo) Search(ctx context.Context, params SearchParams) (SearchResult, error) {
	where := []string{"created_by = $1", "is_deleted = FALSE"}
	args := []interface{}{params.CreatedBy}

	if params.Status != nil {
		args = append(args, *params.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if params.ProductType != nil {
		args = append(args, *params.ProductType)
		where = append(where, fmt.Sprintf("product_type = $%d", len(args)))
	}
	if params.SearchTerm != "" {
		args = append(args, "%"+escapeLike(params.SearchTerm)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(`(reference_code LIKE $%d
			OR basic_details->>'firstName' LIKE $%d
			OR basic_details->>'lastName' LIKE $%d
			OR basic_details->>'mobileNumber' LIKE $%d)`, n, n, n, n))
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM leads WHERE ` + whereClause
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return SearchResult{}, fmt.Errorf("count leads: %w", err)
	}

	args = append(args, params.PageSize, params.Page*params.PageSize)
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		summaryColumns, whereClause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search leads: %w", err)
	}
	defer rows.Close()

	items, err := scanSummaries(rows)
	if err != nil {
		return SearchResult{}, err
	}

	return SearchResult{Items: items, Total: total, Page: params.Page, PageSize: params.PageSize}, nil
}

// Recent lists the creator's most recently created leads.
func (r *Repo) Recent(ctx context.Context, createdBy string, limit int) ([]Summary, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads
		WHERE created_by = $1 AND is_deleted = FALSE
		ORDER BY created_at DESC LIMIT $2`, summaryColumns)

	rows, err := r.pool.Query(ctx, query, createdBy, limit)
	if err != nil {
		return nil, fmt.Errorf("recent leads: %w", err)
	}
	defer rows.Close()

	return scanSummaries(rows)
}

// ReplaceDocuments rewrites the document set of a lead in one transaction.
func (r *Repo) ReplaceDocuments(ctx context.Context, leadID uuid.UUID, docs []Document) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace documents: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM lead_documents WHERE lead_id = $1`, leadID); err != nil {
		return fmt.Errorf("clear lead documents: %w", err)
	}

	for _, doc := range docs {
		_, err := tx.Exec(ctx, `
			INSERT INTO lead_documents (id, lead_id, document_type, file_name, storage_path, uploaded_by, uploaded_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			doc.ID, leadID, doc.DocumentType, doc.FileName, doc.StoragePath, doc.UploadedBy, doc.UploadedAt,
		)
		if err != nil {
			return fmt.Errorf("insert lead document: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace documents: %w", err)
	}
	return nil
}

func (r *Repo) listDocuments(ctx context.Context, leadID uuid.UUID) ([]Document, error) {
	query := `
		SELECT id, lead_id, document_type, file_name, storage_path, uploaded_by, uploaded_at
		FROM lead_documents WHERE lead_id = $1 ORDER BY uploaded_at`

	rows, err := r.pool.Query(ctx, query, leadID)
	if err != nil {
		return nil, fmt.Errorf("list lead documents: %w", err)
	}
	defer rows.Close()

	docs := make([]Document, 0)
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.LeadID, &doc.DocumentType, &doc.FileName, &doc.StoragePath, &doc.UploadedBy, &doc.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan lead document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

const summaryColumns = `id, reference_code, status, product_type,
	basic_details->>'firstName', basic_details->>'lastName', basic_details->>'mobileNumber',
	loan_details->>'amountRequested', created_at`

func scanSummaries(rows pgx.Rows) ([]Summary, error) {
	items := make([]Summary, 0)
	for rows.Next() {
		var s Summary
		var firstName, lastName, mobile, amount *string
		if err := rows.Scan(&s.ID, &s.ReferenceCode, &s.Status, &s.ProductType, &firstName, &lastName, &mobile, &amount, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lead summary: %w", err)
		}
		s.ApplicantName = joinName(firstName, lastName)
		if mobile != nil {
			s.MobileNumber = *mobile
		}
		if amount != nil {
			parsed, err := decimal.NewFromString(*amount)
			if err == nil {
				s.AmountRequested = parsed
			}
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	var basic, occupation, financial, loan []byte

	err := row.Scan(
		&lead.ID, &lead.ReferenceCode, &lead.Status, &lead.ProductType, &basic, &occupation,
		&financial, &loan, &lead.AssignedBranchName, &lead.AssignedBranchAddress,
		&lead.IsDeleted, &lead.DeletedBy, &lead.DeletedAt, &lead.CreatedBy, &lead.CreatedAt,
		&lead.UpdatedBy, &lead.UpdatedAt,
	)
	if err != nil {
		return Lead{}, err
	}

	if err := json.Unmarshal(basic, &lead.Basic); err != nil {
		return Lead{}, fmt.Errorf("decode basic details: %w", err)
	}
	if err := json.Unmarshal(loan, &lead.Loan); err != nil {
		return Lead{}, fmt.Errorf("decode loan details: %w", err)
	}
	if occupation != nil {
		if err := json.Unmarshal(occupation, &lead.Occupation); err != nil {
			return Lead{}, fmt.Errorf("decode occupation details: %w", err)
		}
	}
	if financial != nil {
		if err := json.Unmarshal(financial, &lead.Financial); err != nil {
			return Lead{}, fmt.Errorf("decode financial details: %w", err)
		}
	}

	return lead, nil
}

func marshalDetails(lead Lead) (basic, occupation, financial, loan []byte, err error) {
	basic, err = json.Marshal(lead.Basic)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode basic details: %w", err)
	}
	loan, err = json.Marshal(lead.Loan)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode loan details: %w", err)
	}
	if lead.Occupation != nil {
		occupation, err = json.Marshal(lead.Occupation)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("encode occupation details: %w", err)
		}
	}
	if lead.Financial != nil {
		financial, err = json.Marshal(lead.Financial)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("encode financial details: %w", err)
		}
	}
	return basic, occupation, financial, loan, nil
}

func joinName(first, last *string) string {
	parts := make([]string, 0, 2)
	if first != nil && *first != "" {
		parts = append(parts, *first)
	}
	if last != nil && *last != "" {
		parts = append(parts, *last)
	}
	return strings.Join(parts, " ")
}

func escapeLike(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
