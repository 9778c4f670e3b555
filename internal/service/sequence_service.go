package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-admissions-api/internal/models"
	appErrors "github.com/noah-isme/school-admissions-api/pkg/errors"
)

// serialWidth is the fixed zero-padded width of the trailing serial. A scope
// window holds at most 9999 numbers; issuing beyond that is an error.
const serialWidth = 4

const maxSerial = 9999

type sequenceRepository interface {
	Increment(ctx context.Context, entity models.SequenceEntity, scopeKey string) (int64, error)
}

type sequenceObserver interface {
	SequenceIssued(entity models.SequenceEntity)
}

// SequenceService issues the human-readable, prefix-scoped record numbers
// (ENQ<yy><mm><serial>, ADM<yy><serial>, ATAT<yy><serial>). Each number comes
// from a single atomic counter increment, so concurrent callers can never
// observe the same serial.
type SequenceService struct {
	repo    sequenceRepository
	metrics sequenceObserver
	logger  *zap.Logger
}

// NewSequenceService constructs a SequenceService.
func NewSequenceService(repo sequenceRepository, metrics sequenceObserver, logger *zap.Logger) *SequenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SequenceService{repo: repo, metrics: metrics, logger: logger}
}

// Next returns the next identifier for the entity within the time window of at.
func (s *SequenceService) Next(ctx context.Context, entity models.SequenceEntity, at time.Time) (string, error) {
	scope := entity.ScopeKey(at)
	if scope == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown sequence entity %q", entity))
	}

	value, err := s.repo.Increment(ctx, entity, scope)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to increment sequence")
	}
	if value > maxSerial {
		s.logger.Error("sequence window exhausted", zap.String("scope", scope), zap.Int64("value", value))
		return "", appErrors.Clone(appErrors.ErrSequenceExhausted, fmt.Sprintf("no serials left in window %s", scope))
	}

	if s.metrics != nil {
		s.metrics.SequenceIssued(entity)
	}
	return fmt.Sprintf("%s%0*d", scope, serialWidth, value), nil
}

// NextFromExisting derives the next identifier by scanning an existing set of
// numbers for the highest serial under the prefix. This is the predecessor
// scan-max algorithm: two callers working from the same snapshot compute the
// same number, which is exactly the duplicate race the counter in Next removes.
// Retained only for parity tests against historical data.
func NextFromExisting(prefix string, existing []string) (string, error) {
	serials := make([]int, 0, len(existing))
	for _, number := range existing {
		if !strings.HasPrefix(number, prefix) {
			continue
		}
		tail := number[len(prefix):]
		if len(tail) != serialWidth {
			continue
		}
		serial, err := strconv.Atoi(tail)
		if err != nil {
			continue
		}
		serials = append(serials, serial)
	}

	next := 1
	if len(serials) > 0 {
		sort.Ints(serials)
		next = serials[len(serials)-1] + 1
	}
	if next > maxSerial {
		return "", appErrors.Clone(appErrors.ErrSequenceExhausted, fmt.Sprintf("no serials left under prefix %s", prefix))
	}
	return fmt.Sprintf("%s%0*d", prefix, serialWidth, next), nil
}
