package services

import (
	"context"
	"testing"
	"time"

	"dating-backend/internal/apperr"
	"dating-backend/internal/models"
)

func TestLikeCreatesSingleEdge(t *testing.T) {
	db := newMemDB()
	svc := NewLikeService(db.likeStore(), db.userStore())

	alice := seedUser(t, db, "alice", models.GenderFemale, dob(30, time.March, 1))
	bob := seedUser(t, db, "bob", models.GenderMale, dob(29, time.April, 5))

	ctx := context.Background()
	if err := svc.Like(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	likers, err := svc.Likers(ctx, bob.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(likers) != 1 || likers[0] != alice.ID {
		t.Fatalf("expected likers of bob to be exactly [alice], got %v", likers)
	}

	// No reciprocal edge materialized.
	likersOfAlice, err := svc.Likers(ctx, alice.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(likersOfAlice) != 0 {
		t.Errorf("no reciprocal edge should exist, got %v", likersOfAlice)
	}
}

func TestLikeDuplicateRejected(t *testing.T) {
	db := newMemDB()
	svc := NewLikeService(db.likeStore(), db.userStore())

	alice := seedUser(t, db, "alice", models.GenderFemale, dob(30, time.March, 1))
	bob := seedUser(t, db, "bob", models.GenderMale, dob(29, time.April, 5))

	ctx := context.Background()
	if err := svc.Like(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertErrorIs(t, svc.Like(ctx, alice.ID, bob.ID), apperr.ErrAlreadyLiked)

	likers, err := svc.Likers(ctx, bob.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(likers) != 1 {
		t.Errorf("alice must appear exactly once, got %v", likers)
	}
}

func TestLikeMissingTarget(t *testing.T) {
	db := newMemDB()
	svc := NewLikeService(db.likeStore(), db.userStore())

	alice := seedUser(t, db, "alice", models.GenderFemale, dob(30, time.March, 1))

	assertErrorIs(t, svc.Like(context.Background(), alice.ID, 999), apperr.ErrNotFound)
}

func TestLikeBothDirectionsAllowed(t *testing.T) {
	db := newMemDB()
	svc := NewLikeService(db.likeStore(), db.userStore())

	alice := seedUser(t, db, "alice", models.GenderFemale, dob(30, time.March, 1))
	bob := seedUser(t, db, "bob", models.GenderMale, dob(29, time.April, 5))

	ctx := context.Background()
	if err := svc.Like(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Like(ctx, bob.ID, alice.ID); err != nil {
		t.Fatalf("reverse direction is a distinct edge: %v", err)
	}

	likees, err := svc.Likees(ctx, bob.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(likees) != 1 || likees[0] != alice.ID {
		t.Fatalf("expected bob to like exactly [alice], got %v", likees)
	}
}
