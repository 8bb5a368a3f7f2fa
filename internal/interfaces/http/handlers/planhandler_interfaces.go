package handlers

import (
	"context"

	subdto "krona/internal/application/subscription/dto"
	"krona/internal/application/subscription/usecases"
)

// Use case interfaces for PlanHandler

type createPlanUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreatePlanCommand) (*subdto.PlanDTO, error)
}

type updatePlanUseCase interface {
	Execute(ctx context.Context, cmd usecases.UpdatePlanCommand) (*subdto.PlanDTO, error)
}

type updatePlanStatusUseCase interface {
	Execute(ctx context.Context, cmd usecases.UpdatePlanStatusCommand) (*subdto.PlanDTO, error)
}

type getPlanUseCase interface {
	Execute(ctx context.Context, planSID string) (*subdto.PlanDTO, error)
}

type listPlansUseCase interface {
	Execute(ctx context.Context, query usecases.ListPlansQuery) ([]*subdto.PlanDTO, int64, error)
}

type deletePlanUseCase interface {
	Execute(ctx context.Context, planSID string) error
}

type listPlanMembersUseCase interface {
	Execute(ctx context.Context, planSID string, page, pageSize int) ([]*subdto.PlanMemberDTO, int64, error)
}
