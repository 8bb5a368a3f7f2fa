package usecases

import (
	"context"
	"fmt"
	"time"

	"krona/internal/domain/subscription"
	"krona/internal/shared/biztime"
	"krona/internal/shared/logger"
)

// staleAssignmentAge is how long an immediate assignment may stay unapplied
// before cleanup removes it. Immediate assignments normally apply within the
// same request, so anything older was orphaned by a failed apply.
const staleAssignmentAge = time.Hour

// CleanupStaleAssignmentsUseCase deletes immediate assignments that were
// never applied.
type CleanupStaleAssignmentsUseCase struct {
	assignmentRepo subscription.PlanAssignmentRepository
	logger         logger.Interface
}

func NewCleanupStaleAssignmentsUseCase(
	assignmentRepo subscription.PlanAssignmentRepository,
	logger logger.Interface,
) *CleanupStaleAssignmentsUseCase {
	return &CleanupStaleAssignmentsUseCase{
		assignmentRepo: assignmentRepo,
		logger:         logger,
	}
}

// Execute returns the number of assignments removed.
func (uc *CleanupStaleAssignmentsUseCase) Execute(ctx context.Context) (int, error) {
	cutoff := biztime.NowUTC().Add(-staleAssignmentAge)

	deleted, err := uc.assignmentRepo.DeleteStaleUnapplied(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale assignments: %w", err)
	}

	if deleted > 0 {
		uc.logger.Infow("stale plan assignments removed", "count", deleted)
	}

	return int(deleted), nil
}
