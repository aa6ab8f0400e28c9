package snapshot

// TagChain is an ordered list of synonymous us-gaap concept names for one
// accounting idea, most preferred first. Filings drift across taxonomy
// releases, so later entries act as fallbacks.
type TagChain []string

// ChainSet bundles every tag chain the engine resolves. Zero-value fields can
// be filled from DefaultChains via Merged, so callers only override the
// chains they care about.
type ChainSet struct {
	Cash                  TagChain `mapstructure:"cash"`
	TotalLiabilities      TagChain `mapstructure:"total_liabilities"`
	CurrentLiabilities    TagChain `mapstructure:"current_liabilities"`
	NoncurrentLiabilities TagChain `mapstructure:"noncurrent_liabilities"`
	TotalAssets           TagChain `mapstructure:"total_assets"`
	CurrentAssets         TagChain `mapstructure:"current_assets"`
	Receivables           TagChain `mapstructure:"receivables"`
	Inventory             TagChain `mapstructure:"inventory"`
	CurrentDebt           TagChain `mapstructure:"current_debt"`
	LongTermDebt          TagChain `mapstructure:"long_term_debt"`
	OperatingIncome       TagChain `mapstructure:"operating_income"`
	InterestExpense       TagChain `mapstructure:"interest_expense"`
	OperatingCashFlow     TagChain `mapstructure:"operating_cash_flow"`
}

// DefaultChains returns the us-gaap fallback chains used for US filers.
func DefaultChains() ChainSet {
	return ChainSet{
		Cash: TagChain{
			"CashAndCashEquivalentsAtCarryingValue",
			"CashCashEquivalentsRestrictedCashAndRestrictedCashEquivalents",
		},
		TotalLiabilities:      TagChain{"Liabilities"},
		CurrentLiabilities:    TagChain{"LiabilitiesCurrent"},
		NoncurrentLiabilities: TagChain{"LiabilitiesNoncurrent"},
		TotalAssets:           TagChain{"Assets"},
		CurrentAssets:         TagChain{"AssetsCurrent"},
		Receivables: TagChain{
			"AccountsReceivableNetCurrent",
			"AccountsReceivableNet",
		},
		Inventory:   TagChain{"InventoryNet"},
		CurrentDebt: TagChain{"DebtCurrent"},
		LongTermDebt: TagChain{
			"LongTermDebtNoncurrent",
			"LongTermDebt",
		},
		OperatingIncome: TagChain{"OperatingIncomeLoss"},
		InterestExpense: TagChain{"InterestExpense"},
		OperatingCashFlow: TagChain{
			"NetCashProvidedByUsedInOperatingActivities",
			"NetCashProvidedByUsedInOperatingActivitiesContinuingOperations",
		},
	}
}

// Merged fills empty chains from defaults.
func (c ChainSet) Merged(defaults ChainSet) ChainSet {
	pick := func(own, def TagChain) TagChain {
		if len(own) > 0 {
			return own
		}
		return def
	}
	return ChainSet{
		Cash:                  pick(c.Cash, defaults.Cash),
		TotalLiabilities:      pick(c.TotalLiabilities, defaults.TotalLiabilities),
		CurrentLiabilities:    pick(c.CurrentLiabilities, defaults.CurrentLiabilities),
		NoncurrentLiabilities: pick(c.NoncurrentLiabilities, defaults.NoncurrentLiabilities),
		TotalAssets:           pick(c.TotalAssets, defaults.TotalAssets),
		CurrentAssets:         pick(c.CurrentAssets, defaults.CurrentAssets),
		Receivables:           pick(c.Receivables, defaults.Receivables),
		Inventory:             pick(c.Inventory, defaults.Inventory),
		CurrentDebt:           pick(c.CurrentDebt, defaults.CurrentDebt),
		LongTermDebt:          pick(c.LongTermDebt, defaults.LongTermDebt),
		OperatingIncome:       pick(c.OperatingIncome, defaults.OperatingIncome),
		InterestExpense:       pick(c.InterestExpense, defaults.InterestExpense),
		OperatingCashFlow:     pick(c.OperatingCashFlow, defaults.OperatingCashFlow),
	}
}

// anchorChains lists the chains whose period-end dates seed anchor candidate
// generation, in a fixed order so first-seen metadata stays deterministic.
func (c ChainSet) anchorChains() []TagChain {
	return []TagChain{
		c.Cash,
		c.TotalLiabilities,
		c.TotalAssets,
		c.CurrentLiabilities,
		c.CurrentAssets,
		c.OperatingIncome,
		c.InterestExpense,
		c.OperatingCashFlow,
		c.CurrentDebt,
		c.LongTermDebt,
		c.Receivables,
		c.Inventory,
	}
}

func (c ChainSet) all() map[string]TagChain {
	return map[string]TagChain{
		"cash":                   c.Cash,
		"total_liabilities":      c.TotalLiabilities,
		"current_liabilities":    c.CurrentLiabilities,
		"noncurrent_liabilities": c.NoncurrentLiabilities,
		"total_assets":           c.TotalAssets,
		"current_assets":         c.CurrentAssets,
		"receivables":            c.Receivables,
		"inventory":              c.Inventory,
		"current_debt":           c.CurrentDebt,
		"long_term_debt":         c.LongTermDebt,
		"operating_income":       c.OperatingIncome,
		"interest_expense":       c.InterestExpense,
		"operating_cash_flow":    c.OperatingCashFlow,
	}
}
