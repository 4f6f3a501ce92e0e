package metrics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"callvista/internal/disconnect"
	"callvista/internal/normalize"
)

// Aggregate derives the full metrics report from one normalized call set.
//
// agentNames maps agent ids to display names for the performance pivot and
// may be nil (ids are used as labels). The function is pure: it reads only
// its inputs and static tables.
func Aggregate(calls []normalize.NormalizedCall, mode RangeMode, agentNames map[string]string) Report {
	r := Report{TotalCalls: len(calls)}

	var answered, successful, transferred, voicemail, failed int
	for _, c := range calls {
		switch c.Status {
		case normalize.StatusSuccessful:
			successful++
		case normalize.StatusTransferred:
			transferred++
		case normalize.StatusVoicemail:
			voicemail++
		case normalize.StatusFailed:
			failed++
		}
		// A call counts as answered unless it outright failed.
		if c.Status != normalize.StatusFailed {
			answered++
		}
	}

	total := len(calls)
	r.PickupRate = pctInt(answered, total)
	r.SuccessRate = pctInt(successful, total)
	r.TransferRate = pctInt(transferred, total)
	r.VoicemailRate = pctInt(voicemail, total)
	r.Failed = FailedMetrics{TotalFailed: failed}

	r.CallVolume, r.CallDuration, r.Latency, r.InboundOutbound = timeSeries(calls, mode)
	r.Sentiment = sentimentDistribution(calls)
	r.SentimentTrend = sentimentTrend(calls)
	r.SuccessByHour = successByHour(calls)
	r.AgentPerformance = agentPerformance(calls, agentNames)
	r.Disconnection = disconnectionReport(calls)
	return r
}

// Empty returns the well-defined all-zero report shape used when a fetch
// cycle fails: zero rates, zero-filled buckets, no nils anywhere.
func Empty(mode RangeMode) Report {
	return Aggregate(nil, mode, nil)
}

/* ===================== time-bucketed series ===================== */

var weekdayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// bucketLabels returns the fixed label set for a mode. Month mode has no
// fixed set (labels come from the data, empty days omitted).
func bucketLabels(mode RangeMode) []string {
	switch mode {
	case RangeToday:
		out := make([]string, 24)
		for h := 0; h < 24; h++ {
			out[h] = fmt.Sprintf("%02d:00", h)
		}
		return out
	case RangeMonth:
		return nil
	default: // week, all
		return weekdayLabels
	}
}

// bucketIndex places a timestamp in its mode bucket. Month mode returns the
// day of month (1-based); others return an index into bucketLabels.
func bucketIndex(t time.Time, mode RangeMode) int {
	switch mode {
	case RangeToday:
		return t.Hour()
	case RangeMonth:
		return t.Day()
	default:
		// time.Weekday is Sunday-based; series are Mon..Sun.
		return (int(t.Weekday()) + 6) % 7
	}
}

type seriesAcc struct {
	count    int
	durSum   float64
	latSum   float64
	latCount int
	inbound  int
	outbound int
}

func (a *seriesAcc) add(c normalize.NormalizedCall) {
	a.count++
	a.durSum += c.DurationSeconds
	if c.LatencyMS > 0 {
		a.latSum += c.LatencyMS
		a.latCount++
	}
	if c.CallType == normalize.CallTypeOutbound {
		a.outbound++
	} else {
		a.inbound++
	}
}

func timeSeries(calls []normalize.NormalizedCall, mode RangeMode) (volume, duration, latency []BucketPoint, inOut []InOutPoint) {
	if mode == RangeMonth {
		byDay := map[int]*seriesAcc{}
		for _, c := range calls {
			t, ok := normalize.ParseTimestamp(c.StartedAt)
			if !ok {
				continue
			}
			day := t.Day()
			a := byDay[day]
			if a == nil {
				a = &seriesAcc{}
				byDay[day] = a
			}
			a.add(c)
		}
		days := make([]int, 0, len(byDay))
		for d := range byDay {
			days = append(days, d)
		}
		sort.Ints(days)
		for _, d := range days {
			a := byDay[d]
			label := fmt.Sprintf("%d", d)
			volume = append(volume, BucketPoint{Label: label, Value: float64(a.count)})
			duration = append(duration, BucketPoint{Label: label, Value: avgMinutes(a.durSum, a.count)})
			latency = append(latency, BucketPoint{Label: label, Value: round2(safeDiv(a.latSum, float64(a.latCount)))})
			inOut = append(inOut, InOutPoint{Label: label, Inbound: a.inbound, Outbound: a.outbound})
		}
		return volume, duration, latency, inOut
	}

	labels := bucketLabels(mode)
	accs := make([]seriesAcc, len(labels))
	for _, c := range calls {
		t, ok := normalize.ParseTimestamp(c.StartedAt)
		if !ok {
			continue
		}
		i := bucketIndex(t, mode)
		if i < 0 || i >= len(accs) {
			continue
		}
		accs[i].add(c)
	}
	for i, label := range labels {
		a := accs[i]
		volume = append(volume, BucketPoint{Label: label, Value: float64(a.count)})
		duration = append(duration, BucketPoint{Label: label, Value: avgMinutes(a.durSum, a.count)})
		latency = append(latency, BucketPoint{Label: label, Value: round2(safeDiv(a.latSum, float64(a.latCount)))})
		inOut = append(inOut, InOutPoint{Label: label, Inbound: a.inbound, Outbound: a.outbound})
	}
	return volume, duration, latency, inOut
}

/* ===================== sentiment ===================== */

func sentimentDistribution(calls []normalize.NormalizedCall) SentimentDistribution {
	var pos, neu, neg int
	for _, c := range calls {
		switch c.Sentiment {
		case normalize.SentimentPositive:
			pos++
		case normalize.SentimentNeutral:
			neu++
		case normalize.SentimentNegative:
			neg++
		}
	}
	total := pos + neu + neg
	return SentimentDistribution{
		Positive: pctInt(pos, total),
		Neutral:  pctInt(neu, total),
		Negative: pctInt(neg, total),
		Total:    total,
	}
}

func sentimentTrend(calls []normalize.NormalizedCall) []SentimentPoint {
	type acc struct{ pos, neu, neg int }
	accs := make([]acc, len(weekdayLabels))
	for _, c := range calls {
		if c.Sentiment == normalize.SentimentNone {
			continue
		}
		t, ok := normalize.ParseTimestamp(c.StartedAt)
		if !ok {
			continue
		}
		i := (int(t.Weekday()) + 6) % 7
		switch c.Sentiment {
		case normalize.SentimentPositive:
			accs[i].pos++
		case normalize.SentimentNeutral:
			accs[i].neu++
		case normalize.SentimentNegative:
			accs[i].neg++
		}
	}
	out := make([]SentimentPoint, len(weekdayLabels))
	for i, label := range weekdayLabels {
		a := accs[i]
		total := a.pos + a.neu + a.neg
		out[i] = SentimentPoint{
			Label:    label,
			Positive: pctInt(a.pos, total),
			Neutral:  pctInt(a.neu, total),
			Negative: pctInt(a.neg, total),
		}
	}
	return out
}

/* ===================== success by hour ===================== */

func successByHour(calls []normalize.NormalizedCall) SuccessByHour {
	type acc struct{ total, success int }
	var hours [24]acc
	for _, c := range calls {
		t, ok := normalize.ParseTimestamp(c.StartedAt)
		if !ok {
			continue
		}
		h := t.Hour()
		hours[h].total++
		if c.Status == normalize.StatusSuccessful {
			hours[h].success++
		}
	}

	out := SuccessByHour{}
	var sumTotal, sumSuccess int
	bestRate, worstRate := -1, -1
	for h := 0; h < 24; h++ {
		a := hours[h]
		if a.total == 0 {
			continue
		}
		label := fmt.Sprintf("%02d:00", h)
		rate := pctInt(a.success, a.total)
		out.Hours = append(out.Hours, HourSuccess{
			Hour:        label,
			Total:       a.total,
			Successful:  a.success,
			SuccessRate: rate,
		})
		sumTotal += a.total
		sumSuccess += a.success
		// Strict comparisons: ties keep the first occurrence.
		if bestRate == -1 || rate > bestRate {
			bestRate = rate
			out.BestHour = label
		}
		if worstRate == -1 || rate < worstRate {
			worstRate = rate
			out.WorstHour = label
		}
	}
	out.OverallRate = pctInt(sumSuccess, sumTotal)
	return out
}

/* ===================== agent performance ===================== */

func agentPerformance(calls []normalize.NormalizedCall, agentNames map[string]string) AgentPerformance {
	type acc struct {
		total, success, transfer int
		durSum                   float64
		sentTotal, sentPositive  int
	}
	byAgent := map[string]*acc{}
	for _, c := range calls {
		if c.AgentID == "" {
			continue
		}
		a := byAgent[c.AgentID]
		if a == nil {
			a = &acc{}
			byAgent[c.AgentID] = a
		}
		a.total++
		a.durSum += c.DurationSeconds
		switch c.Status {
		case normalize.StatusSuccessful:
			a.success++
		case normalize.StatusTransferred:
			a.transfer++
		}
		if c.Sentiment != normalize.SentimentNone {
			a.sentTotal++
			if c.Sentiment == normalize.SentimentPositive {
				a.sentPositive++
			}
		}
	}

	ids := make([]string, 0, len(byAgent))
	for id := range byAgent {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := AgentPerformance{
		Agents: make([]string, 0, len(ids)),
		Rows: []AgentMetricRow{
			{Metric: MetricSuccessRate},
			{Metric: MetricTransferRate},
			{Metric: MetricAvgDuration},
			{Metric: MetricSatisfaction},
			{Metric: MetricCallsPerHour},
		},
	}

	for _, id := range ids {
		a := byAgent[id]

		label := id
		if name, ok := agentNames[id]; ok && name != "" {
			label = name
		}
		out.Agents = append(out.Agents, label)

		// Satisfaction defaults to 50 with no sentiment-bearing calls:
		// a neutral prior, not a zero score.
		satisfaction := 50.0
		if a.sentTotal > 0 {
			satisfaction = float64(pctInt(a.sentPositive, a.sentTotal))
		}

		// Calls per hour from accumulated talk time; when duration-derived
		// throughput rounds to 0, estimate totalCalls/2 instead.
		callsPerHour := round2(safeDiv(float64(a.total), a.durSum/3600))
		if callsPerHour == 0 {
			callsPerHour = float64(a.total) / 2
		}

		out.Rows[0].Values = append(out.Rows[0].Values, float64(pctInt(a.success, a.total)))
		out.Rows[1].Values = append(out.Rows[1].Values, float64(pctInt(a.transfer, a.total)))
		out.Rows[2].Values = append(out.Rows[2].Values, avgMinutes(a.durSum, a.total))
		out.Rows[3].Values = append(out.Rows[3].Values, satisfaction)
		out.Rows[4].Values = append(out.Rows[4].Values, callsPerHour)
	}
	return out
}

/* ===================== disconnection ===================== */

func disconnectionReport(calls []normalize.NormalizedCall) DisconnectionReport {
	counts := map[string]int{}
	for _, c := range calls {
		if c.DisconnectReason == "" {
			continue
		}
		counts[c.DisconnectReason]++
	}
	out := DisconnectionReport{}
	for _, n := range counts {
		out.TotalWithReason += n
	}

	catCounts := map[disconnect.Category]int{}
	for reason, n := range counts {
		cat := disconnect.Categorize(reason)
		catCounts[cat] += n
		out.Reasons = append(out.Reasons, ReasonCount{
			Reason:     reason,
			Count:      n,
			Percentage: round2(safeDiv(float64(n), float64(out.TotalWithReason)) * 100),
			Category:   cat,
		})
	}
	sort.Slice(out.Reasons, func(i, j int) bool {
		if out.Reasons[i].Count != out.Reasons[j].Count {
			return out.Reasons[i].Count > out.Reasons[j].Count
		}
		return out.Reasons[i].Reason < out.Reasons[j].Reason
	})

	for _, cat := range []disconnect.Category{disconnect.CategoryEnded, disconnect.CategoryNotConnected, disconnect.CategoryError} {
		n := catCounts[cat]
		if n == 0 {
			continue
		}
		out.ByCategory = append(out.ByCategory, CategoryCount{
			Category:   cat,
			Count:      n,
			Percentage: round2(safeDiv(float64(n), float64(out.TotalWithReason)) * 100),
		})
	}
	return out
}

/* ===================== helpers ===================== */

// pctInt is the shared rate arithmetic: integer percentage rounded to the
// nearest whole number, 0 when the denominator is 0.
func pctInt(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func avgMinutes(durSumSeconds float64, count int) float64 {
	return round2(safeDiv(durSumSeconds/60, float64(count)))
}
