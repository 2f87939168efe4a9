package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/hifzmaal_backend/internal/apperrors"
	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
	"github.com/SscSPs/hifzmaal_backend/internal/core/services"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
	"github.com/SscSPs/hifzmaal_backend/internal/platform/clock"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SavingsServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memStore
	events  *MockEventPublisher
	service portssvc.SavingsGoalSvcFacade
}

func (suite *SavingsServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = newMemStore()
	suite.events = new(MockEventPublisher)
	suite.events.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()

	authz := newMemberAuthorizer()
	authz.add(familyID, ownerID, domain.RoleOwner, nil)
	authz.add(familyID, editorID, domain.RoleEditor, nil)
	authz.add(familyID, viewerID, domain.RoleViewer, nil)
	authz.add(otherFamilyID, outsiderID, domain.RoleOwner, nil)

	suite.store.addAccount("savings", familyID, domain.AccountTypeSavings, "0")
	suite.store.addAccount("foreign", otherFamilyID, domain.AccountTypeSavings, "0")

	suite.service = services.NewSavingsGoalService(suite.store, suite.store,
		services.WithFamilyAuthorizer(authz),
		services.WithClock(clock.Fixed{T: testNow}),
		services.WithEventPublisher(suite.events))
}

func TestSavingsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SavingsServiceTestSuite))
}

func (suite *SavingsServiceTestSuite) validRequest() dto.CreateSavingsGoalRequest {
	return dto.CreateSavingsGoalRequest{
		AccountID:    ptr("savings"),
		Name:         "Hajj 2027",
		Type:         domain.GoalHajj,
		TargetAmount: dec("1000.00"),
		TargetDate:   ptr("2027-05-01"),
	}
}

func (suite *SavingsServiceTestSuite) addGoal(id, target, current string) domain.SavingsGoal {
	g := domain.SavingsGoal{
		GoalID:        id,
		FamilyID:      familyID,
		Name:          id,
		Type:          domain.GoalEmergency,
		TargetAmount:  dec(target),
		CurrentAmount: dec(current),
		StartDate:     day(2025, 1, 1),
		IsActive:      true,
	}
	suite.store.goals[id] = g
	return g
}

func (suite *SavingsServiceTestSuite) addAutoGoal(id string, contributionDay int, monthly string) domain.SavingsGoal {
	g := suite.addGoal(id, "1000.00", "0")
	g.AutoContribute = true
	g.ContributionDay = ptr(contributionDay)
	g.MonthlyContribution = ptr(dec(monthly))
	suite.store.goals[id] = g
	return g
}

func (suite *SavingsServiceTestSuite) TestCreateGoal_Defaults() {
	goal, err := suite.service.CreateGoal(suite.ctx, familyID, suite.validRequest(), editorID)

	suite.Require().NoError(err)
	suite.True(goal.CurrentAmount.IsZero())
	suite.Equal(day(2025, 6, 15), goal.StartDate)
	suite.Equal(day(2027, 5, 1), *goal.TargetDate)
	suite.True(goal.IsActive)
	suite.Contains(suite.store.goals, goal.GoalID)
}

func (suite *SavingsServiceTestSuite) TestCreateGoal_Validation() {
	tests := []struct {
		name   string
		mutate func(*dto.CreateSavingsGoalRequest)
		want   error
	}{
		{"target below minimum", func(r *dto.CreateSavingsGoalRequest) { r.TargetAmount = dec("0.001") }, apperrors.ErrValidation},
		{"current above target", func(r *dto.CreateSavingsGoalRequest) { r.CurrentAmount = ptr(dec("1000.01")) }, apperrors.ErrValidation},
		{"negative current", func(r *dto.CreateSavingsGoalRequest) { r.CurrentAmount = ptr(dec("-1")) }, apperrors.ErrValidation},
		{"target date today", func(r *dto.CreateSavingsGoalRequest) { r.TargetDate = ptr("2025-06-15") }, apperrors.ErrValidation},
		{"other family account", func(r *dto.CreateSavingsGoalRequest) { r.AccountID = ptr("foreign") }, apperrors.ErrNotFound},
		{"auto without day", func(r *dto.CreateSavingsGoalRequest) {
			r.AutoContribute = true
			r.MonthlyContribution = ptr(dec("100.00"))
		}, apperrors.ErrValidation},
		{"auto without monthly amount", func(r *dto.CreateSavingsGoalRequest) {
			r.AutoContribute = true
			r.ContributionDay = ptr(5)
		}, apperrors.ErrValidation},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			req := suite.validRequest()
			tt.mutate(&req)
			_, err := suite.service.CreateGoal(suite.ctx, familyID, req, ownerID)
			suite.ErrorIs(err, tt.want)
		})
	}
}

func (suite *SavingsServiceTestSuite) TestGetGoal_OtherFamilyNotFound() {
	suite.addGoal("goal-1", "1000.00", "0")

	_, err := suite.service.GetGoal(suite.ctx, otherFamilyID, "goal-1", outsiderID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *SavingsServiceTestSuite) TestContribute_AnnouncesMilestonesAndCompletion() {
	suite.addGoal("goal-1", "1000.00", "200.00")

	first, err := suite.service.Contribute(suite.ctx, familyID, "goal-1", dec("400.00"), editorID)
	suite.Require().NoError(err)
	suite.Equal([]int{25, 50}, first.MilestonesReached)
	suite.False(first.Completed)
	suite.True(dec("600.00").Equal(suite.store.goals["goal-1"].CurrentAmount))

	second, err := suite.service.Contribute(suite.ctx, familyID, "goal-1", dec("400.00"), editorID)
	suite.Require().NoError(err)
	suite.Equal([]int{75, 90}, second.MilestonesReached)
	suite.True(second.Completed)

	third, err := suite.service.Contribute(suite.ctx, familyID, "goal-1", dec("10.00"), editorID)
	suite.Require().NoError(err)
	suite.Empty(third.MilestonesReached)
	suite.False(third.Completed, "only the contribution reaching the target completes the goal")

	suite.Len(suite.events.eventsOfType(domain.EventSavingsMilestone), 4)
	suite.Len(suite.events.eventsOfType(domain.EventSavingsGoalCompleted), 1)
}

func (suite *SavingsServiceTestSuite) TestContribute_Rejections() {
	inactive := suite.addGoal("inactive", "1000.00", "0")
	inactive.IsActive = false
	suite.store.goals["inactive"] = inactive
	suite.addGoal("goal-1", "1000.00", "0")

	tests := []struct {
		name   string
		goalID string
		amount string
		userID string
		want   error
	}{
		{"inactive goal", "inactive", "10.00", ownerID, apperrors.ErrConflict},
		{"amount below minimum", "goal-1", "0.001", ownerID, apperrors.ErrValidation},
		{"fractional cents", "goal-1", "10.005", ownerID, apperrors.ErrValidation},
		{"viewer", "goal-1", "10.00", viewerID, apperrors.ErrForbidden},
		{"unknown goal", "missing", "10.00", ownerID, apperrors.ErrNotFound},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.Contribute(suite.ctx, familyID, tt.goalID, dec(tt.amount), tt.userID)
			suite.ErrorIs(err, tt.want)
		})
	}
	suite.True(suite.store.goals["goal-1"].CurrentAmount.IsZero())
}

func (suite *SavingsServiceTestSuite) TestUpdateGoal() {
	suite.addGoal("goal-1", "1000.00", "0")

	suite.Run("enabling auto contribution needs a day", func() {
		_, err := suite.service.UpdateGoal(suite.ctx, familyID, "goal-1",
			dto.UpdateSavingsGoalRequest{AutoContribute: ptr(true), MonthlyContribution: ptr(dec("50.00"))}, editorID)
		suite.ErrorIs(err, apperrors.ErrValidation)
	})
	suite.Run("fields change", func() {
		goal, err := suite.service.UpdateGoal(suite.ctx, familyID, "goal-1", dto.UpdateSavingsGoalRequest{
			Name:                ptr("Umrah"),
			Type:                ptr(domain.GoalUmrah),
			AutoContribute:      ptr(true),
			ContributionDay:     ptr(15),
			MonthlyContribution: ptr(dec("50.00")),
		}, editorID)
		suite.Require().NoError(err)
		suite.Equal("Umrah", goal.Name)
		suite.Equal(domain.GoalUmrah, suite.store.goals["goal-1"].Type)
		suite.Equal(editorID, suite.store.goals["goal-1"].LastUpdatedBy)
	})
}

func (suite *SavingsServiceTestSuite) TestDeleteGoal_OwnerOnly() {
	suite.addGoal("goal-1", "1000.00", "0")

	err := suite.service.DeleteGoal(suite.ctx, familyID, "goal-1", editorID)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	suite.Require().NoError(suite.service.DeleteGoal(suite.ctx, familyID, "goal-1", ownerID))
	suite.NotContains(suite.store.goals, "goal-1")
}

func (suite *SavingsServiceTestSuite) TestGetGoalsOverview_ActiveGoalsOnly() {
	suite.addGoal("done", "500.00", "500.00")
	suite.addGoal("half", "1500.00", "500.00")
	paused := suite.addGoal("paused", "9000.00", "100.00")
	paused.IsActive = false
	suite.store.goals["paused"] = paused

	overview, err := suite.service.GetGoalsOverview(suite.ctx, familyID, viewerID)

	suite.Require().NoError(err)
	suite.Equal(2, overview.TotalGoals)
	suite.Equal(1, overview.CompletedGoals)
	suite.Equal(1, overview.InProgressGoals)
	suite.True(dec("2000.00").Equal(overview.TotalTarget))
	suite.True(dec("1000.00").Equal(overview.TotalSaved))
	suite.True(dec("50").Equal(overview.OverallProgress))
}

func (suite *SavingsServiceTestSuite) TestProcessAutoContributions_OncePerDay() {
	suite.addAutoGoal("due-today", 15, "300.00")
	suite.addAutoGoal("other-day", 10, "300.00")
	paused := suite.addAutoGoal("paused", 15, "300.00")
	paused.IsActive = false
	suite.store.goals["paused"] = paused

	result, err := suite.service.ProcessAutoContributions(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(domain.AutoContributionResult{Scanned: 1, Contributed: 1}, result)
	suite.True(dec("300.00").Equal(suite.store.goals["due-today"].CurrentAmount))
	suite.True(suite.store.goals["other-day"].CurrentAmount.IsZero())
	milestones := suite.events.eventsOfType(domain.EventSavingsMilestone)
	suite.Require().Len(milestones, 1)
	suite.Equal(25, milestones[0].Payload["milestone"])

	result, err = suite.service.ProcessAutoContributions(suite.ctx)
	suite.Require().NoError(err)
	suite.Zero(result.Contributed)
	suite.True(dec("300.00").Equal(suite.store.goals["due-today"].CurrentAmount))
}
