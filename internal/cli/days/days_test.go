package days

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/rotipani/internal/cli"
	"github.com/julianstephens/rotipani/internal/models"
	"github.com/julianstephens/rotipani/internal/storage"
	"github.com/julianstephens/rotipani/internal/testutil"
)

var now = time.Date(2024, 6, 10, 13, 15, 0, 0, time.UTC)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	ctx := cli.NewContext(storage.NewMemoryStore(), time.UTC, testutil.FixedClock(now))
	out := &bytes.Buffer{}
	ctx.Out = out
	return ctx, out
}

func TestNameCmd_SetAndShow(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&NameCmd{Name: []string{"Asha", "Rao"}}).Run(ctx); err != nil {
		t.Fatalf("set name failed: %v", err)
	}
	if !strings.Contains(out.String(), "Hello, Asha Rao! 👋") {
		t.Errorf("expected greeting, got %q", out.String())
	}

	out.Reset()
	if err := (&NameCmd{}).Run(ctx); err != nil {
		t.Fatalf("show name failed: %v", err)
	}
	if strings.TrimSpace(out.String()) != "Asha Rao" {
		t.Errorf("expected stored name, got %q", out.String())
	}
}

func TestNameCmd_NoName(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&NameCmd{}).Run(ctx); err != nil {
		t.Fatalf("show name failed: %v", err)
	}
	if !strings.Contains(out.String(), "No name set") {
		t.Errorf("expected hint, got %q", out.String())
	}
}

func TestNameCmd_RejectsBlank(t *testing.T) {
	ctx, _ := setupTestContext(t)

	if err := (&NameCmd{Name: []string{"  "}}).Run(ctx); err == nil {
		t.Error("expected error for blank name")
	}
}

func TestToggleCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&ToggleCmd{Meal: "Lunch"}).Run(ctx); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "Lunch: ✓ Consumed at 01:15 PM" {
		t.Errorf("unexpected output %q", got)
	}

	record := ctx.Meals.Read("2024-06-10")
	if !record.Lunch || record.Dinner {
		t.Errorf("expected lunch only, got %+v", record)
	}

	out.Reset()
	if err := (&ToggleCmd{Meal: "lunch"}).Run(ctx); err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "Lunch: Not consumed yet" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestTodayCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	if err := ctx.Meals.SetUserName("Asha"); err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.Meals.Toggle("2024-06-10", models.MealDinner); err != nil {
		t.Fatal(err)
	}

	if err := (&TodayCmd{}).Run(ctx); err != nil {
		t.Fatalf("today failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Hello, Asha! 👋",
		"Mon, Jun 10",
		"Lunch:  Not consumed yet",
		"Dinner: ✓ Consumed at 01:15 PM",
		"Today: 1/2",
		"Streak: 1 day\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestEditCmd_SetsPastDay(t *testing.T) {
	ctx, out := setupTestContext(t)
	yes, no := true, false

	cmd := &EditCmd{Date: "2024-06-01", Lunch: &yes, Dinner: &no}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Saved") {
		t.Errorf("expected save confirmation, got %q", out.String())
	}

	record := ctx.Meals.Read("2024-06-01")
	if !record.Lunch || record.Dinner {
		t.Errorf("unexpected record %+v", record)
	}
	if record.LunchTime == nil || !record.LunchTime.Equal(now) {
		t.Errorf("expected lunch stamped with now, got %v", record.LunchTime)
	}
}

func TestEditCmd_KeepsExistingTimestamp(t *testing.T) {
	ctx, _ := setupTestContext(t)
	earlier := time.Date(2024, 6, 9, 12, 0, 0, 0, time.UTC)
	if err := ctx.Meals.Write("2024-06-09", models.DayRecord{Lunch: true, LunchTime: &earlier}); err != nil {
		t.Fatal(err)
	}

	yes := true
	if err := (&EditCmd{Date: "yesterday", Lunch: &yes, Dinner: &yes}).Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	record := ctx.Meals.Read("2024-06-09")
	if record.LunchTime == nil || !record.LunchTime.Equal(earlier) {
		t.Errorf("lunch time changed: %v", record.LunchTime)
	}
	if !record.Dinner {
		t.Error("expected dinner set")
	}
}

func TestEditCmd_NoFlagsShowsDay(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&EditCmd{Date: "2024-06-01"}).Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if !strings.Contains(out.String(), "Saturday, June 1, 2024") {
		t.Errorf("expected day header, got %q", out.String())
	}
	if keys, _ := ctx.Meals.Keys(); len(keys) != 0 {
		t.Errorf("expected nothing written, got %v", keys)
	}
}

func TestEditCmd_NoChanges(t *testing.T) {
	ctx, out := setupTestContext(t)
	no := false

	if err := (&EditCmd{Date: "today", Lunch: &no}).Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if !strings.Contains(out.String(), "No changes.") {
		t.Errorf("expected no-change notice, got %q", out.String())
	}
}

func TestEditCmd_InvalidDate(t *testing.T) {
	ctx, _ := setupTestContext(t)

	if err := (&EditCmd{Date: "06/01/2024"}).Run(ctx); err == nil {
		t.Error("expected error for invalid date")
	}
}

func TestWeekCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	if _, err := ctx.Meals.ApplyEdit("2024-06-08", true, true); err != nil {
		t.Fatal(err)
	}

	if err := (&WeekCmd{}).Run(ctx); err != nil {
		t.Fatalf("week failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Tue, Jun 4 to Mon, Jun 10") {
		t.Errorf("unexpected range:\n%s", got)
	}
	if !strings.Contains(got, "Meals: 2/14 (14%)") {
		t.Errorf("unexpected totals:\n%s", got)
	}
	if !strings.Contains(got, "* Mon, Jun 10") {
		t.Errorf("today not marked:\n%s", got)
	}
}

func TestMonthCmd_Offset(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&MonthCmd{Offset: -3}).Run(ctx); err != nil {
		t.Fatalf("month failed: %v", err)
	}

	got := out.String()
	if !strings.HasPrefix(got, "March 2024\n") {
		t.Errorf("unexpected title:\n%s", got)
	}
	if !strings.Contains(got, "Meals: 0/62 (0%)") {
		t.Errorf("unexpected totals:\n%s", got)
	}
}

func TestStreakCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&StreakCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No streak yet") {
		t.Errorf("unexpected output %q", out.String())
	}

	for _, key := range []string{"2024-06-08", "2024-06-09", "2024-06-10"} {
		if _, err := ctx.Meals.Toggle(key, models.MealLunch); err != nil {
			t.Fatal(err)
		}
	}

	out.Reset()
	if err := (&StreakCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != "🔥 3 day streak" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestStatsCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	if _, err := ctx.Meals.ApplyEdit("2024-06-10", true, true); err != nil {
		t.Fatal(err)
	}

	if err := (&StatsCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	got := strings.TrimSpace(out.String())
	want := "Today: 2/2   Week: 14%   Month: 3%   Streak: 1 day"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
