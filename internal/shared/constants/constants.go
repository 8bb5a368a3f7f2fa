// Package constants defines shared table names and pagination defaults.
package constants

// Table names
const (
	TableMerchants           = "merchants"
	TablePlans               = "plans"
	TableSubscriptions       = "subscriptions"
	TablePlanAssignments     = "plan_assignments"
	TableBillingTransactions = "billing_transactions"
	TableBillingSequences    = "billing_sequences"
)

// Runtime environments
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// Pagination defaults
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SystemActor identifies mutations performed by scheduled jobs rather than an
// administrator.
const SystemActor = "system-cleanup"
