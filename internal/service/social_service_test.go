package service

import (
	"errors"
	"testing"
	"time"

	"github.com/lectio/internal/db"
)

func seedUser(t *testing.T, username string) db.User {
	t.Helper()
	user := db.User{Username: username, Password: "hashed"}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return user
}

func setupSocialTestDB(t *testing.T) func() {
	t.Helper()
	cleanup := setupCatchupTestDB(t)
	if err := db.DB.AutoMigrate(&db.UserFollow{}, &db.ReadingGroup{}, &db.GroupMember{}); err != nil {
		cleanup()
		t.Fatalf("failed to migrate social tables: %v", err)
	}
	return cleanup
}

func TestFollowIsIdempotent(t *testing.T) {
	cleanup := setupSocialTestDB(t)
	defer cleanup()

	alice := seedUser(t, "alice")
	bob := seedUser(t, "bob")

	svc := NewSocialService(db.DB)
	if err := svc.Follow(alice.ID, bob.ID); err != nil {
		t.Fatalf("Follow returned error: %v", err)
	}
	if err := svc.Follow(alice.ID, bob.ID); err != nil {
		t.Fatalf("repeated Follow returned error: %v", err)
	}

	following, err := svc.Following(alice.ID)
	if err != nil {
		t.Fatalf("Following returned error: %v", err)
	}
	if len(following) != 1 || following[0].ID != bob.ID {
		t.Fatalf("unexpected following set: %+v", following)
	}

	followers, err := svc.Followers(bob.ID)
	if err != nil {
		t.Fatalf("Followers returned error: %v", err)
	}
	if len(followers) != 1 || followers[0].ID != alice.ID {
		t.Fatalf("unexpected followers set: %+v", followers)
	}
}

func TestFollowRejectsSelfAndMissingUser(t *testing.T) {
	cleanup := setupSocialTestDB(t)
	defer cleanup()

	alice := seedUser(t, "alice")

	svc := NewSocialService(db.DB)
	if err := svc.Follow(alice.ID, alice.ID); !errors.Is(err, ErrSelfFollow) {
		t.Fatalf("expected ErrSelfFollow, got %v", err)
	}
	if err := svc.Follow(alice.ID, alice.ID+100); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUnfollowIsNoopWhenNotFollowing(t *testing.T) {
	cleanup := setupSocialTestDB(t)
	defer cleanup()

	alice := seedUser(t, "alice")
	bob := seedUser(t, "bob")

	svc := NewSocialService(db.DB)
	if err := svc.Unfollow(alice.ID, bob.ID); err != nil {
		t.Fatalf("Unfollow returned error: %v", err)
	}
}

func TestCreateGroupAddsOwnerAsMember(t *testing.T) {
	cleanup := setupSocialTestDB(t)
	defer cleanup()

	alice := seedUser(t, "alice")

	svc := NewSocialService(db.DB)
	group, err := svc.CreateGroup(alice.ID, "晨更小组", "每天早上一起读经")
	if err != nil {
		t.Fatalf("CreateGroup returned error: %v", err)
	}
	if group.InviteCode == "" {
		t.Fatal("expected generated invite code")
	}

	members, err := svc.GroupMembers(group.ID)
	if err != nil {
		t.Fatalf("GroupMembers returned error: %v", err)
	}
	if len(members) != 1 || members[0].ID != alice.ID {
		t.Fatalf("expected owner as sole member, got %+v", members)
	}
}

func TestJoinByInviteCode(t *testing.T) {
	cleanup := setupSocialTestDB(t)
	defer cleanup()

	alice := seedUser(t, "alice")
	bob := seedUser(t, "bob")

	svc := NewSocialService(db.DB)
	group, err := svc.CreateGroup(alice.ID, "晨更小组", "")
	if err != nil {
		t.Fatalf("CreateGroup returned error: %v", err)
	}

	joined, err := svc.JoinByInviteCode(bob.ID, group.InviteCode)
	if err != nil {
		t.Fatalf("JoinByInviteCode returned error: %v", err)
	}
	if joined.ID != group.ID {
		t.Fatalf("joined wrong group: %d", joined.ID)
	}

	if _, err := svc.JoinByInviteCode(bob.ID, group.InviteCode); !errors.Is(err, ErrAlreadyGroupMember) {
		t.Fatalf("expected ErrAlreadyGroupMember, got %v", err)
	}
	if _, err := svc.JoinByInviteCode(bob.ID, "no-such-code"); !errors.Is(err, ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
}

func TestGroupLeaderboardOrdersByChapters(t *testing.T) {
	cleanup := setupSocialTestDB(t)
	defer cleanup()

	start := date("2024-05-01")
	sub, schedules := seedSubscription(t, start, 3)

	bob := seedUser(t, "bob")

	svc := NewSocialService(db.DB)
	group, err := svc.CreateGroup(sub.UserID, "晨更小组", "")
	if err != nil {
		t.Fatalf("CreateGroup returned error: %v", err)
	}
	if _, err := svc.JoinByInviteCode(bob.ID, group.InviteCode); err != nil {
		t.Fatalf("JoinByInviteCode returned error: %v", err)
	}

	progress := NewProgressService(db.DB)
	for _, schedule := range schedules[:2] {
		if _, err := progress.Toggle(sub.ID, schedule.ID, schedule.Date.Add(20*time.Hour)); err != nil {
			t.Fatalf("Toggle returned error: %v", err)
		}
	}

	entries, err := svc.GroupLeaderboard(group.ID, start, date("2024-05-03"))
	if err != nil {
		t.Fatalf("GroupLeaderboard returned error: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].UserID != sub.UserID || entries[0].CompletedChapters != 2 {
		t.Fatalf("unexpected leader: %+v", entries[0])
	}
	if entries[1].UserID != bob.ID || entries[1].CompletedChapters != 0 {
		t.Fatalf("unexpected runner-up: %+v", entries[1])
	}
}
