package lead

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/prometeylabs/lander/internal/models"
	"github.com/prometeylabs/lander/internal/pkg/pagination"
	"github.com/prometeylabs/lander/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const mysqlDeadlock = 1213

var (
	ErrNotFound     = errors.New("contact request not found")
	ErrPageNotFound = errors.New("landing page not found")
)

// InteractionRecorder stores the submit interaction inside the lead transaction.
type InteractionRecorder interface {
	RecordInteractionTx(ctx context.Context, tx *gorm.DB, visitID, kind, elementID, elementType string) (*models.LandingPageInteraction, error)
}

type Service struct {
	db  *gorm.DB
	rec InteractionRecorder
	log *zap.Logger
}

func NewService(db *gorm.DB, rec InteractionRecorder, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, rec: rec, log: log}
}

// Create stores a site form lead.
func (s *Service) Create(ctx context.Context, req *models.ContactRequest) error {
	if err := s.db.WithContext(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("create contact request: %w", err)
	}
	return nil
}

// SubmitLanding stores a landing page lead and, when a visit is given, its submit interaction.
// A missing visit or a failed interaction write is rolled back to a savepoint and logged. Errors
// after which the server already discarded the transaction fail the whole submit.
func (s *Service) SubmitLanding(ctx context.Context, dto *LandingSubmitDTO) (*models.ContactRequest, error) {
	req := dto.toRequest()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.LandingPage{}).Where("id = ?", dto.LandingPageID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrPageNotFound
		}
		if err := tx.Create(req).Error; err != nil {
			return err
		}

		if dto.VisitID == "" || s.rec == nil {
			return nil
		}
		err := tx.Transaction(func(sp *gorm.DB) error {
			_, err := s.rec.RecordInteractionTx(ctx, sp, dto.VisitID, models.InteractionSubmit, "", "form")
			return err
		})
		if err == nil {
			return nil
		}
		if txAborted(err) {
			return err
		}
		s.log.Warn("record submit interaction",
			zap.String("visit_id", dto.VisitID),
			zap.String("landing_page_id", dto.LandingPageID),
			zap.Error(err))
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrPageNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("submit landing lead: %w", err)
	}
	return req, nil
}

// txAborted reports MySQL errors that roll back the enclosing transaction, not just the statement.
func txAborted(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDeadlock
}

func (s *Service) List(ctx context.Context, lq ListQuery, q pagination.Query) ([]models.ContactRequest, response.Pagination, error) {
	db := s.db.WithContext(ctx).Model(&models.ContactRequest{})
	if lq.RequestType != "" {
		db = db.Where("request_type = ?", lq.RequestType)
	}
	if lq.IsProcessed != nil {
		db = db.Where("is_processed = ?", *lq.IsProcessed)
	}
	db = db.Order("created_at DESC")

	var items []models.ContactRequest
	pag, err := pagination.Paginate(db, q, &items)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return items, pag, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.ContactRequest, error) {
	var req models.ContactRequest
	if err := s.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

// Update applies staff triage fields. Nothing else on a lead is editable.
func (s *Service) Update(ctx context.Context, id string, dto *UpdateDTO) (*models.ContactRequest, error) {
	req, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrNotFound
	}

	updates := map[string]interface{}{}
	if dto.IsProcessed != nil {
		updates["is_processed"] = *dto.IsProcessed
		req.IsProcessed = *dto.IsProcessed
	}
	if dto.Notes != nil {
		updates["notes"] = *dto.Notes
		req.Notes = *dto.Notes
	}
	if len(updates) == 0 {
		return req, nil
	}
	if err := s.db.WithContext(ctx).Model(req).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update contact request: %w", err)
	}
	return req, nil
}
