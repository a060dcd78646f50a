package signals

// BehavioralSummary is the fixed-shape input produced by the external signal
// computation service for one rolling time window. Consumers never mutate it.
type BehavioralSummary struct {
	TimeWindow    string              `json:"time_window"`
	Credit        CreditSignals       `json:"credit"`
	Savings       SavingsSignals      `json:"savings"`
	Subscriptions SubscriptionSignals `json:"subscriptions"`
	Income        IncomeSignals       `json:"income"`
}

type CreditSignals struct {
	AggregateUtilization float64 `json:"aggregate_utilization"`
	HighUtilizationCount int     `json:"high_utilization_count"`
}

type SavingsSignals struct {
	TotalSavingsBalance float64 `json:"total_savings_balance"`
	EmergencyFundMonths float64 `json:"emergency_fund_months"`
	AvgMonthlyExpenses  float64 `json:"avg_monthly_expenses"`
}

type SubscriptionSignals struct {
	SubscriptionCount int     `json:"subscription_count"`
	SubscriptionShare float64 `json:"subscription_share"`
	TotalSpend        float64 `json:"total_spend"`
}

type IncomeSignals struct {
	PaymentFrequency string `json:"payment_frequency"`
}
