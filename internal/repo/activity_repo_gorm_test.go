package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-crm-api/internal/domain"
)

func TestActivityRepoOrdering(t *testing.T) {
	db := newTestDB(t)
	r := NewActivityRepo(db)
	ctx := context.Background()

	u := seedUser(t, db, "u@x.com")
	l := seedLead(t, db, u.ID, nil)

	day := func(d int) time.Time { return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC) }
	at := func(h int) time.Time { return time.Date(2026, 2, 1, h, 0, 0, 0, time.UTC) }

	first := seedActivity(t, db, l.ID, u.ID, day(15), at(9))
	newest := seedActivity(t, db, l.ID, u.ID, day(16), at(10))
	second := seedActivity(t, db, l.ID, u.ID, day(15), at(11))

	items, err := r.ListByLead(ctx, l.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("want 3 activities, got %d", len(items))
	}
	// 日期倒序；同日按录入时间倒序
	want := []string{newest.ID, second.ID, first.ID}
	for i, id := range want {
		if items[i].ID != id {
			t.Fatalf("position %d: want %s, got %s", i, id, items[i].ID)
		}
	}
}

func TestActivityRepoFindByLead(t *testing.T) {
	db := newTestDB(t)
	r := NewActivityRepo(db)
	ctx := context.Background()

	u := seedUser(t, db, "u@x.com")
	l1 := seedLead(t, db, u.ID, nil)
	l2 := seedLead(t, db, u.ID, func(l *domain.Lead) { l.Email = "other@x.com" })
	a := seedActivity(t, db, l1.ID, u.ID, time.Now(), time.Now())

	got, err := r.FindByLead(ctx, l1.ID, a.ID)
	if err != nil || got.ID != a.ID {
		t.Fatalf("find: %v", err)
	}
	// 挂错父级一律 not found
	if _, err := r.FindByLead(ctx, l2.ID, a.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("wrong lead: want ErrNotFound, got %v", err)
	}
}

func TestActivityRepoRecentByOwner(t *testing.T) {
	db := newTestDB(t)
	r := NewActivityRepo(db)
	ctx := context.Background()

	u1 := seedUser(t, db, "u1@x.com")
	u2 := seedUser(t, db, "u2@x.com")
	active := seedLead(t, db, u1.ID, nil)
	deleted := seedLead(t, db, u1.ID, func(l *domain.Lead) {
		l.Email = "gone@x.com"
		l.IsActive = false
	})
	other := seedLead(t, db, u2.ID, nil)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		seedActivity(t, db, active.ID, u1.ID, base.AddDate(0, 0, i), base)
	}
	seedActivity(t, db, deleted.ID, u1.ID, base.AddDate(0, 1, 0), base)
	seedActivity(t, db, other.ID, u2.ID, base.AddDate(0, 1, 0), base)

	items, err := r.RecentByOwner(ctx, u1.ID, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(items) != 10 {
		t.Fatalf("want 10 items, got %d", len(items))
	}
	for _, a := range items {
		if a.LeadID != active.ID {
			t.Fatalf("activity %s leaked from lead %s", a.ID, a.LeadID)
		}
	}
	// 最新的在前面
	if !items[0].ActivityDate.After(items[9].ActivityDate) {
		t.Fatal("expected newest first")
	}
}

func TestActivityRepoDelete(t *testing.T) {
	db := newTestDB(t)
	r := NewActivityRepo(db)
	ctx := context.Background()

	u := seedUser(t, db, "u@x.com")
	l := seedLead(t, db, u.ID, nil)
	a := seedActivity(t, db, l.ID, u.ID, time.Now(), time.Now())

	rows, err := r.Delete(ctx, l.ID, a.ID)
	if err != nil || rows != 1 {
		t.Fatalf("delete: rows=%d err=%v", rows, err)
	}
	// 硬删，查不回来
	if _, err := r.FindByLead(ctx, l.ID, a.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("after delete: want ErrNotFound, got %v", err)
	}
	rows, err = r.Delete(ctx, l.ID, a.ID)
	if err != nil || rows != 0 {
		t.Fatalf("repeat delete: rows=%d err=%v", rows, err)
	}
}
