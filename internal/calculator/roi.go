// Package calculator projects the return of a marketing engagement for the
// site's ROI calculator.
package calculator

import "math"

const (
	leadMultiplier       = 2.5  // projected lead volume vs current
	conversionMultiplier = 1.3  // projected conversion uplift
	maxConversion        = 50.0 // percent
)

// Industries offered by the calculator form.
var Industries = []string{
	"HVAC",
	"Plumbing",
	"Electrical",
	"Roofing",
	"Landscaping",
	"Cleaning Services",
	"General Contracting",
	"Flooring",
	"Painting",
	"Other",
}

// Input is the business profile entered in the calculator.
type Input struct {
	Industry        string  `json:"industry"`
	MonthlyRevenue  float64 `json:"monthlyRevenue" validate:"gte=0"`
	AverageJobValue float64 `json:"averageJobValue" validate:"gte=0"`
	CurrentLeads    float64 `json:"currentLeads" validate:"gte=0"`
	ConversionRate  float64 `json:"conversionRate" validate:"gte=0,lte=100"`
	MarketingBudget float64 `json:"marketingBudget" validate:"gte=0"`
}

// Result is the projection. Percentages are in percent.
type Result struct {
	CurrentRevenue      float64 `json:"currentRevenue"`
	CurrentLeads        float64 `json:"currentLeads"`
	CurrentConversion   float64 `json:"currentConversion"`
	ProjectedLeads      float64 `json:"projectedLeads"`
	ProjectedConversion float64 `json:"projectedConversion"`
	ProjectedJobs       float64 `json:"projectedJobs"`
	ProjectedRevenue    float64 `json:"projectedRevenue"`
	MonthlyIncrease     float64 `json:"monthlyIncrease"`
	AnnualIncrease      float64 `json:"annualIncrease"`
	ROI                 float64 `json:"roi"`
}

// Calculate projects leads, conversion and revenue after the engagement.
// ROI is the monthly increase net of budget, relative to budget; it is 0
// when there is no budget.
func Calculate(in Input) Result {
	leads := in.CurrentLeads * leadMultiplier
	conversion := math.Min(in.ConversionRate*conversionMultiplier, maxConversion)
	jobs := leads * conversion / 100
	revenue := jobs * in.AverageJobValue
	increase := revenue - in.MonthlyRevenue
	annual := increase * 12

	roi := 0.0
	if in.MarketingBudget > 0 {
		roi = (increase - in.MarketingBudget) / in.MarketingBudget * 100
	}

	return Result{
		CurrentRevenue:      in.MonthlyRevenue,
		CurrentLeads:        in.CurrentLeads,
		CurrentConversion:   in.ConversionRate,
		ProjectedLeads:      round(leads),
		ProjectedConversion: round(conversion*10) / 10,
		ProjectedJobs:       round(jobs),
		ProjectedRevenue:    round(revenue),
		MonthlyIncrease:     round(increase),
		AnnualIncrease:      round(annual),
		ROI:                 round(roi),
	}
}

// round breaks ties toward positive infinity, so -2.5 becomes -2.
func round(x float64) float64 {
	return math.Floor(x + 0.5)
}
