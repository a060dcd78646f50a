package eligibility

// UserAttrs is the normalized view of the caller-supplied user attribute map.
// CreditUtilization is always on the 0-100 scale after normalization.
type UserAttrs struct {
	AnnualIncome         float64
	CreditScore          int // 0 = unknown
	ExistingAccountTypes []string
	CreditUtilization    float64
	Age                  int
	IsEmployed           bool
}

// AttrsFromMap normalizes the boundary attribute map. Callers send
// credit_utilization either as a 0-1 fraction or a 0-100 percentage; values
// at or below 1 are treated as fractions.
func AttrsFromMap(m map[string]any) UserAttrs {
	attrs := UserAttrs{}
	if m == nil {
		return attrs
	}
	attrs.AnnualIncome = floatAttr(m, "annual_income")
	attrs.CreditScore = int(floatAttr(m, "credit_score"))
	attrs.Age = int(floatAttr(m, "age"))
	if v, ok := m["is_employed"].(bool); ok {
		attrs.IsEmployed = v
	}
	util := floatAttr(m, "credit_utilization")
	if util > 0 && util <= 1 {
		util *= 100
	}
	attrs.CreditUtilization = util
	attrs.ExistingAccountTypes = stringSliceAttr(m, "existing_account_types")
	if len(attrs.ExistingAccountTypes) == 0 {
		attrs.ExistingAccountTypes = stringSliceAttr(m, "existing_accounts")
	}
	return attrs
}

func floatAttr(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func stringSliceAttr(m map[string]any, key string) []string {
	switch v := m[key].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		var out []string
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
