// Package tracking records landing page visits and the telemetry their tracking script reports.
package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/prometeylabs/lander/internal/models"
	"github.com/prometeylabs/lander/internal/pkg/geoip"
	"github.com/prometeylabs/lander/internal/pkg/sanitize"
	"github.com/prometeylabs/lander/internal/pkg/useragent"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	MaxUserAgentLen   = 255
	MaxReferrerLen    = 2048
	MaxMetaBytes      = 10000
	MaxPathSamples    = 200
	MaxElementIDLen   = 100
	MaxElementTypeLen = 50

	keyMouseMovements  = "mouse_movements"
	keyScrollPositions = "scroll_positions"
)

var ErrVisitNotFound = errors.New("visit not found")

// UAParser classifies User-Agent headers.
type UAParser interface {
	Parse(ua string) useragent.Info
}

type Recorder struct {
	db  *gorm.DB
	ua  UAParser
	geo geoip.Locator
	log *zap.Logger
}

// NewRecorder wires the recorder. ua and geo may be nil.
func NewRecorder(db *gorm.DB, ua UAParser, geo geoip.Locator, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{db: db, ua: ua, geo: geo, log: log}
}

// Update is one report from the tracking script. Nil fields are left untouched.
type Update struct {
	TimeOnPage interface{}
	Metadata   map[string]interface{}
}

// RecordVisit stores the visit of one successful render under visitID.
func (r *Recorder) RecordVisit(ctx context.Context, visitID string, page *models.LandingPage, ip, userAgent, referrer string) (*models.LandingPageVisit, error) {
	visit := models.LandingPageVisit{
		ID:            visitID,
		LandingPageID: page.ID,
		IPAddress:     ip,
		UserAgent:     sanitize.Truncate(userAgent, MaxUserAgentLen),
		Referrer:      sanitize.Truncate(referrer, MaxReferrerLen),
	}
	meta := r.clientMeta(ip, userAgent)
	if encoded, err := encodeMeta(meta); err == nil {
		visit.MetaData = encoded
	} else {
		r.log.Warn("encode visit metadata", zap.Error(err))
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&visit).Error
	})
	if err != nil {
		return nil, err
	}
	return &visit, nil
}

// UpdateTracking applies a tracking report to a visit. Last write wins per field.
func (r *Recorder) UpdateTracking(ctx context.Context, visitID string, upd Update) (*models.LandingPageVisit, error) {
	var visit models.LandingPageVisit
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&visit, "id = ?", visitID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVisitNotFound
			}
			return err
		}

		var cols []string
		if upd.TimeOnPage != nil {
			if seconds, ok := parseSeconds(upd.TimeOnPage); ok {
				visit.TimeSpent = seconds
				cols = append(cols, "time_spent")
			} else {
				r.log.Warn("ignoring non-numeric time_on_page",
					zap.String("visit_id", visitID), zap.Any("value", upd.TimeOnPage))
			}
		}

		if upd.Metadata != nil {
			bag := make(map[string]interface{}, len(upd.Metadata))
			for k, v := range upd.Metadata {
				switch k {
				case keyMouseMovements:
					visit.PathData.MouseMovements = samples(v)
					cols = appendOnce(cols, "path_data")
				case keyScrollPositions:
					visit.PathData.ScrollPositions = samples(v)
					cols = appendOnce(cols, "path_data")
				default:
					bag[k] = v
				}
			}
			if len(bag) > 0 {
				merged, err := visit.DecodeMeta()
				if err != nil {
					// Cut by the size cap. Rebuild the client fields from the visit row.
					merged = r.clientMeta(visit.IPAddress, visit.UserAgent)
				}
				for k, v := range sanitize.Metadata(bag) {
					merged[k] = v
				}
				encoded, err := encodeMeta(merged)
				if err != nil {
					return err
				}
				visit.MetaData = encoded
				cols = append(cols, "meta_data")
			}
		}

		if len(cols) == 0 {
			return nil
		}
		return tx.Model(&visit).Select(cols).Updates(&visit).Error
	})
	if err != nil {
		return nil, err
	}
	return &visit, nil
}

// RecordInteraction appends an interaction to a visit. Unknown kinds are stored as clicks.
func (r *Recorder) RecordInteraction(ctx context.Context, visitID, kind, elementID, elementType string) (*models.LandingPageInteraction, error) {
	return r.RecordInteractionTx(ctx, nil, visitID, kind, elementID, elementType)
}

// RecordInteractionTx is RecordInteraction inside the caller's transaction. tx may be nil.
func (r *Recorder) RecordInteractionTx(ctx context.Context, tx *gorm.DB, visitID, kind, elementID, elementType string) (*models.LandingPageInteraction, error) {
	if tx == nil {
		tx = r.db
	}
	tx = tx.WithContext(ctx)

	var count int64
	if err := tx.Model(&models.LandingPageVisit{}).Where("id = ?", visitID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrVisitNotFound
	}

	kind = strings.TrimSpace(kind)
	if !models.IsInteractionKind(kind) {
		r.log.Warn("unknown interaction type, recording as click",
			zap.String("visit_id", visitID), zap.String("type", sanitize.Truncate(kind, MaxElementTypeLen)))
		kind = models.InteractionClick
	}
	interaction := models.LandingPageInteraction{
		VisitID:         visitID,
		ElementID:       sanitize.Text(elementID, MaxElementIDLen),
		ElementType:     sanitize.Text(elementType, MaxElementTypeLen),
		InteractionType: kind,
	}
	if err := tx.Create(&interaction).Error; err != nil {
		return nil, err
	}
	return &interaction, nil
}

func (r *Recorder) clientMeta(ip, userAgent string) map[string]interface{} {
	var info useragent.Info
	if r.ua != nil {
		info = r.ua.Parse(userAgent)
	} else {
		info = useragent.Parse(userAgent)
	}
	meta := info.Map()
	if r.geo != nil {
		if country := r.geo.Country(ip); country != "" {
			meta["country"] = country
		}
	}
	return meta
}

// encodeMeta serializes the bag and caps it at MaxMetaBytes.
func encodeMeta(meta map[string]interface{}) (string, error) {
	b, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}
	return sanitize.CapBytes(string(b), MaxMetaBytes), nil
}

// parseSeconds accepts a JSON number or a numeric string. Fractions are truncated.
func parseSeconds(v interface{}) (int, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case int:
		f = float64(t)
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.Atoi(s); err == nil {
			return clampSeconds(float64(n))
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	return clampSeconds(f)
}

func clampSeconds(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// samples keeps the numeric fields of up to MaxPathSamples movement samples.
func samples(v interface{}) []models.Sample {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]models.Sample, 0, min(len(items), MaxPathSamples))
	for _, item := range items {
		if len(out) == MaxPathSamples {
			break
		}
		fields, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		sample := models.Sample{}
		for k, raw := range fields {
			key := sanitize.Text(k, sanitize.MaxKeyLen)
			if n, ok := raw.(float64); ok && key != "" && !math.IsNaN(n) && !math.IsInf(n, 0) {
				sample[key] = n
			}
		}
		if len(sample) > 0 {
			out = append(out, sample)
		}
	}
	return out
}

func appendOnce(cols []string, col string) []string {
	for _, c := range cols {
		if c == col {
			return cols
		}
	}
	return append(cols, col)
}
