package handlers

import (
	"context"

	subdto "krona/internal/application/subscription/dto"
	"krona/internal/application/subscription/usecases"
)

// Use case interfaces for AssignmentHandler

type assignPlanUseCase interface {
	Execute(ctx context.Context, cmd usecases.AssignPlanCommand) (*usecases.AssignPlanResult, error)
}

type applyAssignmentUseCase interface {
	Execute(ctx context.Context, assignmentSID string) (*subdto.SubscriptionDTO, error)
}
