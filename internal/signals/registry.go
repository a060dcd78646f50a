package signals

// Accessor pulls one placeholder value out of a behavioral summary.
type Accessor func(s *BehavioralSummary) any

// Registration binds a placeholder name to its accessor and display format.
type Registration struct {
	Access Accessor
	Kind   FormatKind
}

// Registry maps template placeholder names to typed accessors. It is built
// once and shared read-only; unknown names simply fail to resolve, which the
// personalization engine treats as an abort for the whole template.
type Registry struct {
	entries map[string]Registration
}

func NewRegistry() *Registry {
	return &Registry{entries: map[string]Registration{}}
}

func (r *Registry) Register(name string, access Accessor, kind FormatKind) {
	r.entries[name] = Registration{Access: access, Kind: kind}
}

func (r *Registry) Resolve(name string) (Registration, bool) {
	reg, ok := r.entries[name]
	return reg, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	return names
}

// DefaultRegistry covers the placeholder vocabulary used by the shipped
// catalogs. Percent-kind entries scale fractional inputs to 0-100 here so
// templates stay plain ("{utilization_pct}%").
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("credit_max_utilization_pct", func(s *BehavioralSummary) any {
		return s.Credit.AggregateUtilization * 100
	}, FormatPercent)
	r.Register("utilization_pct", func(s *BehavioralSummary) any {
		return s.Credit.AggregateUtilization * 100
	}, FormatPercent)
	r.Register("high_utilization_count", func(s *BehavioralSummary) any {
		return s.Credit.HighUtilizationCount
	}, FormatCount)
	r.Register("savings_balance", func(s *BehavioralSummary) any {
		return s.Savings.TotalSavingsBalance
	}, FormatCurrency)
	r.Register("total_savings_balance", func(s *BehavioralSummary) any {
		return s.Savings.TotalSavingsBalance
	}, FormatCurrency)
	r.Register("emergency_fund_months", func(s *BehavioralSummary) any {
		return s.Savings.EmergencyFundMonths
	}, FormatMonths)
	r.Register("avg_monthly_expenses", func(s *BehavioralSummary) any {
		return s.Savings.AvgMonthlyExpenses
	}, FormatCurrency)
	r.Register("monthly_expenses", func(s *BehavioralSummary) any {
		return s.Savings.AvgMonthlyExpenses
	}, FormatCurrency)
	r.Register("subscription_count", func(s *BehavioralSummary) any {
		return s.Subscriptions.SubscriptionCount
	}, FormatCount)
	r.Register("subscription_share_pct", func(s *BehavioralSummary) any {
		return s.Subscriptions.SubscriptionShare * 100
	}, FormatPercent)
	r.Register("subscription_share", func(s *BehavioralSummary) any {
		return s.Subscriptions.SubscriptionShare * 100
	}, FormatPercent)
	r.Register("subscription_total_spend", func(s *BehavioralSummary) any {
		return s.Subscriptions.TotalSpend
	}, FormatCurrency)
	r.Register("payment_frequency", func(s *BehavioralSummary) any {
		return s.Income.PaymentFrequency
	}, FormatRaw)
	return r
}
