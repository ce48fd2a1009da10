// Package metrics computes creative performance from mapped ads.
//
// Spend, impressions and clicks come from daily ads-platform insights,
// joined to creatives through each ad's mapping. Revenue, profit and
// purchases come from daily tracking rows, which already carry a creative
// ID. Totals are summed first and ratios are derived once from the totals;
// a zero denominator yields 0.
package metrics
