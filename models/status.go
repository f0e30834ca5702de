package models

// AssetStatus is a closed set; the database column is backed by the
// asset_status enum so no other value can be stored.
type AssetStatus string

const (
	AssetAvailable     AssetStatus = "available"
	AssetAssigned      AssetStatus = "assigned"
	AssetInMaintenance AssetStatus = "in_maintenance"
	AssetRetired       AssetStatus = "retired"
)

type WorkOrderStatus string

const (
	WorkOrderOpen         WorkOrderStatus = "open"
	WorkOrderAssigned     WorkOrderStatus = "assigned"
	WorkOrderInProgress   WorkOrderStatus = "in_progress"
	WorkOrderAwaitingPart WorkOrderStatus = "awaiting_part"
	WorkOrderResolved     WorkOrderStatus = "resolved"
	WorkOrderClosed       WorkOrderStatus = "closed"
)

// ReturnOutcome records the condition of an asset at check-in.
type ReturnOutcome string

const (
	ReturnFunctional ReturnOutcome = "functional"
	ReturnDamaged    ReturnOutcome = "damaged"
)

type PlanFrequency string

const (
	FrequencyDaily   PlanFrequency = "daily"
	FrequencyWeekly  PlanFrequency = "weekly"
	FrequencyMonthly PlanFrequency = "monthly"
	FrequencyYearly  PlanFrequency = "yearly"
)

type InvoiceStatus string

const (
	InvoicePendingPayment InvoiceStatus = "pending_payment"
	InvoicePaid           InvoiceStatus = "paid"
)
