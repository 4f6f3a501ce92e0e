package metrics

import (
	"testing"

	"callvista/internal/disconnect"
	"callvista/internal/normalize"
)

// monday is a fixed reference day for bucket assertions.
const monday = "2024-05-13T"

func call(status normalize.Status, startedAt string) normalize.NormalizedCall {
	return normalize.NormalizedCall{Status: status, StartedAt: startedAt}
}

func TestAggregate_HeadlineRates(t *testing.T) {
	var calls []normalize.NormalizedCall
	for i := 0; i < 6; i++ {
		calls = append(calls, call(normalize.StatusSuccessful, monday+"10:00:00Z"))
	}
	for i := 0; i < 4; i++ {
		calls = append(calls, call(normalize.StatusFailed, monday+"11:00:00Z"))
	}

	r := Aggregate(calls, RangeWeek, nil)
	if r.TotalCalls != 10 {
		t.Fatalf("total: %d", r.TotalCalls)
	}
	if r.SuccessRate != 60 {
		t.Fatalf("success rate: %d", r.SuccessRate)
	}
	if r.PickupRate != 60 {
		t.Fatalf("pickup rate: %d", r.PickupRate)
	}
	if r.Failed.TotalFailed != 4 {
		t.Fatalf("failed: %d", r.Failed.TotalFailed)
	}
}

func TestAggregate_TransferredAndVoicemailCountAsAnswered(t *testing.T) {
	calls := []normalize.NormalizedCall{
		call(normalize.StatusTransferred, monday+"10:00:00Z"),
		call(normalize.StatusVoicemail, monday+"10:00:00Z"),
		call(normalize.StatusFailed, monday+"10:00:00Z"),
		call(normalize.StatusFailed, monday+"10:00:00Z"),
	}
	r := Aggregate(calls, RangeWeek, nil)
	if r.PickupRate != 50 {
		t.Fatalf("pickup rate: %d", r.PickupRate)
	}
	if r.TransferRate != 25 || r.VoicemailRate != 25 {
		t.Fatalf("transfer/voicemail: %d/%d", r.TransferRate, r.VoicemailRate)
	}
}

func TestEmpty_WellDefinedShape(t *testing.T) {
	r := Empty(RangeWeek)
	if r.TotalCalls != 0 || r.SuccessRate != 0 || r.PickupRate != 0 {
		t.Fatalf("expected all-zero headline: %+v", r)
	}
	if len(r.CallVolume) != 7 {
		t.Fatalf("expected 7 weekday buckets, got %d", len(r.CallVolume))
	}
	for _, p := range r.CallVolume {
		if p.Value != 0 {
			t.Fatalf("expected zero-filled buckets, got %+v", p)
		}
	}
	if len(r.SentimentTrend) != 7 {
		t.Fatalf("expected 7 trend buckets, got %d", len(r.SentimentTrend))
	}
	if len(r.SuccessByHour.Hours) != 0 {
		t.Fatalf("expected no hour rows, got %d", len(r.SuccessByHour.Hours))
	}
	if r.AgentPerformance.Agents == nil || len(r.AgentPerformance.Rows) != 5 {
		t.Fatalf("expected empty pivot with 5 metric rows, got %+v", r.AgentPerformance)
	}
}

func TestTimeSeries_TodayHasHourlyBuckets(t *testing.T) {
	calls := []normalize.NormalizedCall{
		call(normalize.StatusSuccessful, monday+"09:15:00Z"),
		call(normalize.StatusSuccessful, monday+"09:45:00Z"),
		call(normalize.StatusFailed, monday+"17:05:00Z"),
	}
	r := Aggregate(calls, RangeToday, nil)
	if len(r.CallVolume) != 24 {
		t.Fatalf("expected 24 buckets, got %d", len(r.CallVolume))
	}
	if r.CallVolume[9].Label != "09:00" || r.CallVolume[9].Value != 2 {
		t.Fatalf("unexpected 09:00 bucket: %+v", r.CallVolume[9])
	}
	if r.CallVolume[17].Value != 1 {
		t.Fatalf("unexpected 17:00 bucket: %+v", r.CallVolume[17])
	}
}

func TestTimeSeries_MonthOmitsEmptyDays(t *testing.T) {
	calls := []normalize.NormalizedCall{
		call(normalize.StatusSuccessful, "2024-05-03T10:00:00Z"),
		call(normalize.StatusSuccessful, "2024-05-21T10:00:00Z"),
		call(normalize.StatusFailed, "2024-05-21T12:00:00Z"),
	}
	r := Aggregate(calls, RangeMonth, nil)
	if len(r.CallVolume) != 2 {
		t.Fatalf("expected 2 day buckets, got %d", len(r.CallVolume))
	}
	if r.CallVolume[0].Label != "3" || r.CallVolume[1].Label != "21" {
		t.Fatalf("expected day labels in order, got %+v", r.CallVolume)
	}
	if r.CallVolume[1].Value != 2 {
		t.Fatalf("expected 2 calls on day 21, got %v", r.CallVolume[1].Value)
	}
}

func TestTimeSeries_WeekBucketsMondayFirst(t *testing.T) {
	calls := []normalize.NormalizedCall{
		call(normalize.StatusSuccessful, monday+"10:00:00Z"),      // Monday
		call(normalize.StatusSuccessful, "2024-05-19T10:00:00Z"),  // Sunday
		{Status: normalize.StatusFailed, StartedAt: "not-a-date"}, // dropped from series
	}
	r := Aggregate(calls, RangeWeek, nil)
	if r.CallVolume[0].Label != "Mon" || r.CallVolume[0].Value != 1 {
		t.Fatalf("unexpected Monday bucket: %+v", r.CallVolume[0])
	}
	if r.CallVolume[6].Label != "Sun" || r.CallVolume[6].Value != 1 {
		t.Fatalf("unexpected Sunday bucket: %+v", r.CallVolume[6])
	}
}

func TestSentiment_ExcludesSentimentlessCalls(t *testing.T) {
	calls := []normalize.NormalizedCall{
		{Sentiment: normalize.SentimentPositive},
		{Sentiment: normalize.SentimentNegative},
		{Sentiment: normalize.SentimentNone},
		{Sentiment: normalize.SentimentNone},
	}
	r := Aggregate(calls, RangeWeek, nil)
	if r.Sentiment.Total != 2 {
		t.Fatalf("expected 2 sentiment-bearing calls, got %d", r.Sentiment.Total)
	}
	if r.Sentiment.Positive != 50 || r.Sentiment.Negative != 50 {
		t.Fatalf("unexpected distribution: %+v", r.Sentiment)
	}
}

func TestSuccessByHour_FiltersEmptyHoursAndBreaksTiesFirst(t *testing.T) {
	calls := []normalize.NormalizedCall{
		// 09:00 is 100%, 11:00 is 100% too; first occurrence wins best.
		call(normalize.StatusSuccessful, monday+"09:00:00Z"),
		call(normalize.StatusSuccessful, monday+"11:00:00Z"),
		// 14:00 is 0%.
		call(normalize.StatusFailed, monday+"14:00:00Z"),
	}
	s := Aggregate(calls, RangeWeek, nil).SuccessByHour
	if len(s.Hours) != 3 {
		t.Fatalf("expected 3 non-empty hours, got %d", len(s.Hours))
	}
	if s.BestHour != "09:00" {
		t.Fatalf("expected first 100%% hour as best, got %q", s.BestHour)
	}
	if s.WorstHour != "14:00" {
		t.Fatalf("expected 14:00 as worst, got %q", s.WorstHour)
	}
	if s.OverallRate != 67 {
		t.Fatalf("expected overall 67, got %d", s.OverallRate)
	}
}

func TestAgentPerformance_DefaultsAndLabels(t *testing.T) {
	calls := []normalize.NormalizedCall{
		{AgentID: "a1", Status: normalize.StatusSuccessful, DurationSeconds: 600, Sentiment: normalize.SentimentPositive},
		{AgentID: "a1", Status: normalize.StatusFailed, DurationSeconds: 600},
		// a2 has no sentiment-bearing calls and no talk time.
		{AgentID: "a2", Status: normalize.StatusSuccessful},
		{AgentID: "a2", Status: normalize.StatusSuccessful},
		{AgentID: "", Status: normalize.StatusFailed},
	}
	ap := Aggregate(calls, RangeWeek, map[string]string{"a1": "Ana"}).AgentPerformance

	if len(ap.Agents) != 2 || ap.Agents[0] != "Ana" || ap.Agents[1] != "a2" {
		t.Fatalf("unexpected agent labels: %v", ap.Agents)
	}

	rows := map[string][]float64{}
	for _, row := range ap.Rows {
		rows[row.Metric] = row.Values
	}
	if got := rows[MetricSuccessRate]; got[0] != 50 || got[1] != 100 {
		t.Fatalf("success rates: %v", got)
	}
	if got := rows[MetricSatisfaction]; got[0] != 100 || got[1] != 50 {
		t.Fatalf("satisfaction (a2 should default to 50): %v", got)
	}
	// a1: 2 calls over 20 minutes of talk time is 6 calls/hour.
	// a2: zero talk time falls back to total/2.
	if got := rows[MetricCallsPerHour]; got[0] != 6 || got[1] != 1 {
		t.Fatalf("calls per hour: %v", got)
	}
	if got := rows[MetricAvgDuration]; got[0] != 10 {
		t.Fatalf("avg duration minutes: %v", got)
	}
}

func TestDisconnection_OrderingAndCategories(t *testing.T) {
	calls := []normalize.NormalizedCall{
		{DisconnectReason: "user_hangup"},
		{DisconnectReason: "user_hangup"},
		{DisconnectReason: "dial_busy"},
		{DisconnectReason: "agent_hangup"},
		{DisconnectReason: ""},
	}
	d := Aggregate(calls, RangeWeek, nil).Disconnection

	if d.TotalWithReason != 4 {
		t.Fatalf("expected 4 reason-bearing calls, got %d", d.TotalWithReason)
	}
	if d.Reasons[0].Reason != "user_hangup" || d.Reasons[0].Count != 2 {
		t.Fatalf("expected user_hangup first: %+v", d.Reasons[0])
	}
	// Equal counts tie-break alphabetically.
	if d.Reasons[1].Reason != "agent_hangup" || d.Reasons[2].Reason != "dial_busy" {
		t.Fatalf("unexpected tie order: %+v", d.Reasons)
	}
	if d.Reasons[0].Category != disconnect.CategoryEnded {
		t.Fatalf("unexpected category: %+v", d.Reasons[0])
	}

	// No error-category reasons in the input, so that bucket is absent.
	if len(d.ByCategory) != 2 {
		t.Fatalf("expected 2 category rows, got %+v", d.ByCategory)
	}
	if d.ByCategory[0].Category != disconnect.CategoryEnded || d.ByCategory[0].Count != 3 {
		t.Fatalf("unexpected ended bucket: %+v", d.ByCategory[0])
	}
}
