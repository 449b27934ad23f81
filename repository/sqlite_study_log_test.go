package repository

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/akinalp/studytrack/models"
	"github.com/akinalp/studytrack/pkg"
)

func addLog(t *testing.T, repo StudyLogRepository, userID int64, date string, hours float64) *models.StudyLog {
	t.Helper()
	log := &models.StudyLog{UserID: userID, Date: date, Hours: hours, Tags: []string{"math", "exam"}}
	if err := repo.Create(context.Background(), log); err != nil {
		t.Fatalf("Create(%s) error = %v", date, err)
	}
	return log
}

func TestStudyLogActiveDates(t *testing.T) {
	db := openTempDB(t)
	repo := NewSQLiteStudyLogRepo(db.Conn)
	user := seedUser(t, db, "ada@example.com")

	addLog(t, repo, user.ID, "2024-01-02", 1)
	addLog(t, repo, user.ID, "2024-01-01", 2)
	addLog(t, repo, user.ID, "2024-01-03", 0)
	addLog(t, repo, user.ID, "2024-01-05", 0.5)

	got, err := repo.ActiveDates(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ActiveDates() error = %v", err)
	}
	want := []string{"2024-01-05", "2024-01-02", "2024-01-01"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ActiveDates() = %v, want %v", got, want)
	}
}

func TestStudyLogUpdateAndGet(t *testing.T) {
	db := openTempDB(t)
	repo := NewSQLiteStudyLogRepo(db.Conn)
	ctx := context.Background()
	user := seedUser(t, db, "ada@example.com")

	log := addLog(t, repo, user.ID, "2024-01-01", 2)
	mood := 4
	log.Hours = 3
	log.Mood = &mood
	log.Tags = nil
	if err := repo.Update(ctx, log); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByDate(ctx, user.ID, "2024-01-01")
	if err != nil {
		t.Fatalf("GetByDate() error = %v", err)
	}
	if got.Hours != 3 || got.Mood == nil || *got.Mood != 4 || len(got.Tags) != 0 {
		t.Fatalf("GetByDate() = %+v", got)
	}

	if _, err := repo.GetByDate(ctx, user.ID, "2024-02-01"); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("GetByDate(missing) error = %v", err)
	}
}

func TestStudyLogListFilterAndDelete(t *testing.T) {
	db := openTempDB(t)
	repo := NewSQLiteStudyLogRepo(db.Conn)
	ctx := context.Background()
	user := seedUser(t, db, "ada@example.com")
	other := seedUser(t, db, "bob@example.com")

	first := addLog(t, repo, user.ID, "2024-01-01", 1)
	addLog(t, repo, user.ID, "2024-01-10", 1)
	addLog(t, repo, user.ID, "2024-01-20", 1)
	addLog(t, repo, other.ID, "2024-01-10", 1)

	logs, err := repo.List(ctx, user.ID, models.LogFilter{Start: "2024-01-05", End: "2024-01-31", Limit: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(logs) != 2 || logs[0].Date != "2024-01-20" {
		t.Fatalf("List() = %+v", logs)
	}
	if !reflect.DeepEqual(logs[0].Tags, []string{"math", "exam"}) {
		t.Fatalf("tags = %v", logs[0].Tags)
	}

	// Another user's id must not be deletable.
	if removed, _ := repo.DeleteByID(ctx, other.ID, first.ID); removed {
		t.Fatal("DeleteByID removed another user's log")
	}
	if removed, err := repo.DeleteByID(ctx, user.ID, first.ID); err != nil || !removed {
		t.Fatalf("DeleteByID() = (%v, %v)", removed, err)
	}
	if removed, err := repo.DeleteByDate(ctx, user.ID, "2024-01-10"); err != nil || !removed {
		t.Fatalf("DeleteByDate() = (%v, %v)", removed, err)
	}
	if removed, err := repo.DeleteByDate(ctx, user.ID, "2024-01-10"); err != nil || removed {
		t.Fatalf("second DeleteByDate() = (%v, %v)", removed, err)
	}
}

func TestStreakSaveAndGet(t *testing.T) {
	db := openTempDB(t)
	repo := NewSQLiteStreakRepo(db.Conn)
	ctx := context.Background()
	user := seedUser(t, db, "ada@example.com")

	if _, err := repo.Get(ctx, user.ID); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("Get() before init error = %v", err)
	}
	if err := repo.Init(ctx, user.ID); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	last := "2024-01-03"
	if err := repo.Save(ctx, &models.Streak{UserID: user.ID, CurrentStreak: 3, LongestStreak: 5, LastStudyDate: &last}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := repo.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.CurrentStreak != 3 || got.LongestStreak != 5 || got.LastStudyDate == nil || *got.LastStudyDate != last {
		t.Fatalf("Get() = %+v", got)
	}
}

func TestWritesMapConstraintErrors(t *testing.T) {
	db := openTempDB(t)
	ctx := context.Background()
	logs := NewSQLiteStudyLogRepo(db.Conn)
	streaks := NewSQLiteStreakRepo(db.Conn)
	user := seedUser(t, db, "ada@example.com")

	addLog(t, logs, user.ID, "2024-01-01", 1)
	err := logs.Create(ctx, &models.StudyLog{UserID: user.ID, Date: "2024-01-01", Hours: 2})
	if !errors.Is(err, pkg.ErrAlreadyExists) {
		t.Fatalf("Create(duplicate date) error = %v, want ErrAlreadyExists", err)
	}

	const missingUser = 9999
	err = logs.Create(ctx, &models.StudyLog{UserID: missingUser, Date: "2024-01-01", Hours: 1})
	if !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("Create(missing user) error = %v, want ErrNotFound", err)
	}
	if err := streaks.Init(ctx, missingUser); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("Init(missing user) error = %v, want ErrNotFound", err)
	}
	if err := streaks.Save(ctx, &models.Streak{UserID: missingUser}); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("Save(missing user) error = %v, want ErrNotFound", err)
	}
}

func TestStudyLogListBySubjectAndMinHours(t *testing.T) {
	db := openTempDB(t)
	repo := NewSQLiteStudyLogRepo(db.Conn)
	ctx := context.Background()
	user := seedUser(t, db, "ada@example.com")

	add := func(date, subject string, hours float64) {
		t.Helper()
		log := &models.StudyLog{UserID: user.ID, Date: date, Hours: hours, Subject: &subject}
		if err := repo.Create(ctx, log); err != nil {
			t.Fatalf("Create(%s) error = %v", date, err)
		}
	}
	add("2024-01-01", "Linear Algebra", 1)
	add("2024-01-02", "algebra review", 3)
	add("2024-01-03", "History", 4)
	add("2024-01-04", "100% effort", 2)

	dates := func(filter models.LogFilter) []string {
		t.Helper()
		filter.Limit = 10
		logs, err := repo.List(ctx, user.ID, filter)
		if err != nil {
			t.Fatalf("List(%+v) error = %v", filter, err)
		}
		var out []string
		for _, l := range logs {
			out = append(out, l.Date)
		}
		return out
	}

	if got := dates(models.LogFilter{Subject: "ALGEBRA"}); !reflect.DeepEqual(got, []string{"2024-01-02", "2024-01-01"}) {
		t.Fatalf("subject filter = %v", got)
	}
	minHours := 2.0
	if got := dates(models.LogFilter{MinHours: &minHours}); !reflect.DeepEqual(got, []string{"2024-01-04", "2024-01-03", "2024-01-02"}) {
		t.Fatalf("min hours filter = %v", got)
	}
	if got := dates(models.LogFilter{Subject: "algebra", MinHours: &minHours}); !reflect.DeepEqual(got, []string{"2024-01-02"}) {
		t.Fatalf("combined filter = %v", got)
	}
	// Wildcards in the subject match literally.
	if got := dates(models.LogFilter{Subject: "%"}); !reflect.DeepEqual(got, []string{"2024-01-04"}) {
		t.Fatalf("literal percent = %v", got)
	}
}
