package usecases

import (
	"context"
	"fmt"

	"krona/internal/application/subscription/dto"
	"krona/internal/domain/merchant"
	"krona/internal/domain/subscription"
	vo "krona/internal/domain/subscription/valueobjects"
	apperrors "krona/internal/shared/errors"
	"krona/internal/shared/logger"
	"krona/internal/shared/utils"
)

// ListPlanMembersUseCase pages over the merchants on a plan. For paid plans
// this is a single query over active subscribers. For the Free plan the
// membership is the union of explicit active Free subscribers followed by
// merchants with no active subscription at all; the page window spans the
// seam between the two sets.
type ListPlanMembersUseCase struct {
	planRepo         subscription.PlanRepository
	subscriptionRepo subscription.SubscriptionRepository
	merchantRepo     merchant.Repository
	logger           logger.Interface
}

func NewListPlanMembersUseCase(
	planRepo subscription.PlanRepository,
	subscriptionRepo subscription.SubscriptionRepository,
	merchantRepo merchant.Repository,
	logger logger.Interface,
) *ListPlanMembersUseCase {
	return &ListPlanMembersUseCase{
		planRepo:         planRepo,
		subscriptionRepo: subscriptionRepo,
		merchantRepo:     merchantRepo,
		logger:           logger,
	}
}

func (uc *ListPlanMembersUseCase) Execute(ctx context.Context, planSID string, page, pageSize int) ([]*dto.PlanMemberDTO, int64, error) {
	plan, err := uc.planRepo.GetBySID(ctx, planSID)
	if err != nil {
		uc.logger.Errorw("failed to get plan", "plan_sid", planSID, "error", err)
		return nil, 0, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return nil, 0, apperrors.NewNotFoundError("plan not found")
	}

	pagination := utils.ValidatePagination(page, pageSize)

	if !plan.IsFree() {
		return uc.listExplicitMembers(ctx, plan, pagination)
	}
	return uc.listFreeMembers(ctx, plan, pagination)
}

func (uc *ListPlanMembersUseCase) listExplicitMembers(ctx context.Context, plan *subscription.Plan, p utils.Pagination) ([]*dto.PlanMemberDTO, int64, error) {
	total, err := uc.subscriptionRepo.CountActiveByPlanID(ctx, plan.ID())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count plan members: %w", err)
	}

	subs, err := uc.subscriptionRepo.ListActiveByPlanID(ctx, plan.ID(), p.Offset(), p.PageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list plan members: %w", err)
	}

	members, err := uc.subscriberMembers(ctx, subs)
	if err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

func (uc *ListPlanMembersUseCase) listFreeMembers(ctx context.Context, plan *subscription.Plan, p utils.Pagination) ([]*dto.PlanMemberDTO, int64, error) {
	explicitTotal, err := uc.subscriptionRepo.CountActiveByPlanID(ctx, plan.ID())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count explicit free members: %w", err)
	}
	virtualTotal, err := uc.merchantRepo.CountActiveWithoutActiveSubscription(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count virtual free members: %w", err)
	}
	total := explicitTotal + virtualTotal

	offset := p.Offset()
	limit := p.PageSize
	members := make([]*dto.PlanMemberDTO, 0, limit)

	// Consume explicit subscribers first.
	if int64(offset) < explicitTotal {
		subs, err := uc.subscriptionRepo.ListActiveByPlanID(ctx, plan.ID(), offset, limit)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to list explicit free members: %w", err)
		}
		explicitMembers, err := uc.subscriberMembers(ctx, subs)
		if err != nil {
			return nil, 0, err
		}
		members = append(members, explicitMembers...)
	}

	// Fill the remainder of the page from merchants without a subscription,
	// skipping whatever part of the virtual set earlier pages consumed.
	if remaining := limit - len(members); remaining > 0 {
		virtualOffset := 0
		if int64(offset) > explicitTotal {
			virtualOffset = offset - int(explicitTotal)
		}
		merchants, err := uc.merchantRepo.ListActiveWithoutActiveSubscription(ctx, virtualOffset, remaining)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to list virtual free members: %w", err)
		}
		for _, m := range merchants {
			members = append(members, &dto.PlanMemberDTO{
				MerchantSID:  m.SID(),
				MerchantName: m.Name(),
				Status:       vo.StatusActive.String(),
				Virtual:      true,
			})
		}
	}

	return members, total, nil
}

func (uc *ListPlanMembersUseCase) subscriberMembers(ctx context.Context, subs []*subscription.Subscription) ([]*dto.PlanMemberDTO, error) {
	members := make([]*dto.PlanMemberDTO, 0, len(subs))
	for _, sub := range subs {
		m, err := uc.merchantRepo.GetByID(ctx, sub.MerchantID())
		if err != nil {
			return nil, fmt.Errorf("failed to get member merchant: %w", err)
		}
		member := &dto.PlanMemberDTO{
			SubscriptionSID: sub.SID(),
			Status:          sub.Status().String(),
			EndDate:         sub.EndDate(),
			Virtual:         false,
		}
		start := sub.StartDate()
		member.StartDate = &start
		if m != nil {
			member.MerchantSID = m.SID()
			member.MerchantName = m.Name()
		}
		members = append(members, member)
	}
	return members, nil
}
