package evaluation

import (
	"sync"

	"github.com/jueunk617/subscription-keep-or-cut/internal/model"
)

// Input pairs a subscription with its category and the month's usage record
type Input struct {
	Subscription model.Subscription
	Category     model.Category
	Usage        model.UsageRecord
}

// ClassifyAll classifies every input concurrently. The result keeps input order.
func ClassifyAll(inputs []Input) []model.Classification {
	out := make([]model.Classification, len(inputs))
	var wg sync.WaitGroup
	for i := range inputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := inputs[i]
			out[i] = Classify(in.Subscription, in.Category, in.Usage)
		}(i)
	}
	wg.Wait()
	return out
}

// Aggregate folds classifications into month-level totals. Trials are not
// billed yet, so they add to neither total.
func Aggregate(classifications []model.Classification) model.Dashboard {
	d := model.Dashboard{Subscriptions: make([]model.Classification, 0, len(classifications))}
	for _, c := range classifications {
		if !c.Trial {
			d.TotalMonthlyCost += c.MonthlyCost
			d.TotalAnnualWasteEstimate += c.AnnualWaste
		}
		d.Subscriptions = append(d.Subscriptions, c)
	}
	return d
}
