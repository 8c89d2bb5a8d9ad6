package repos

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/mevlabs/engagement-backend/internal/types"
)

func TestCheckInUniquePerUserHabitDay(t *testing.T) {
	db := testDB(t, &types.User{}, &types.Program{}, &types.Habit{}, &types.CheckIn{})
	repo := NewCheckInRepo(db, testRepoLogger(t))
	dbc := testCtx()
	user := seedUser(t, db)

	program := &types.Program{Name: "Programa Teste", IsActive: true}
	if err := db.Create(program).Error; err != nil {
		t.Fatal(err)
	}
	habit := &types.Habit{ProgramID: program.ID, Name: "Caminhada", PointsPerCompletion: 10, SourceType: types.HabitSourceManual, IsActive: true}
	if err := db.Create(habit).Error; err != nil {
		t.Fatal(err)
	}

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	first := &types.CheckIn{UserID: user.ID, HabitID: habit.ID, CheckInDate: date}
	if err := repo.Create(dbc, first); err != nil {
		t.Fatal(err)
	}

	dup := &types.CheckIn{UserID: user.ID, HabitID: habit.ID, CheckInDate: date}
	err := repo.Create(dbc, dup)
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("err = %v, want duplicated key", err)
	}

	exists, err := repo.ExistsOnDate(dbc, user.ID, date)
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Fatal("check-in not visible on its date")
	}
	exists, err = repo.ExistsOnDate(dbc, user.ID, date.AddDate(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Fatal("unexpected check-in on the next day")
	}

	count, err := repo.CountByUser(dbc, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

func TestCheckInListFilters(t *testing.T) {
	db := testDB(t, &types.User{}, &types.Program{}, &types.Habit{}, &types.CheckIn{})
	repo := NewCheckInRepo(db, testRepoLogger(t))
	dbc := testCtx()
	user := seedUser(t, db)

	program := &types.Program{Name: "Programa Teste", IsActive: true}
	if err := db.Create(program).Error; err != nil {
		t.Fatal(err)
	}
	habit := &types.Habit{ProgramID: program.ID, Name: "Hidratacao", PointsPerCompletion: 5, SourceType: types.HabitSourceManual, IsActive: true}
	if err := db.Create(habit).Error; err != nil {
		t.Fatal(err)
	}

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		checkIn := &types.CheckIn{UserID: user.ID, HabitID: habit.ID, CheckInDate: start.AddDate(0, 0, i)}
		if err := repo.Create(dbc, checkIn); err != nil {
			t.Fatal(err)
		}
	}

	from := start.AddDate(0, 0, 1)
	to := start.AddDate(0, 0, 3)
	listed, err := repo.List(dbc, CheckInFilter{UserID: &user.ID, StartDate: &from, EndDate: &to})
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 3 {
		t.Fatalf("listed %d check-ins, want 3 in range", len(listed))
	}
	// Newest first.
	if !listed[0].CheckInDate.After(listed[2].CheckInDate) {
		t.Fatal("expected descending date order")
	}

	limited, err := repo.List(dbc, CheckInFilter{UserID: &user.ID, Limit: 2, Offset: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Fatalf("listed %d check-ins, want limit 2", len(limited))
	}
}
