package model

// StockResult is one formatted hit from the stocks index.
type StockResult struct {
	ID               string
	Score            float64
	Name             string
	Isin             string
	Description      string
	EquitySector     string
	EquityIndustry   string
	Currency         string
	SizeLabel        string
	ValueGrowthLabel string
	RoeTtm           float64
	DivYieldTtm      float64
	PriceEarnings    float64
	MarketCap        float64
}
