package mongo

import (
	"regexp"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oauthcore/auth-server/internal/core/domain"
)

func TestUsernamePattern_CaseInsensitiveAndAnchored(t *testing.T) {
	p := usernamePattern("Alice")
	if p.Options != "i" {
		t.Fatalf("expected case-insensitive option, got %q", p.Options)
	}

	re := regexp.MustCompile("(?i)" + p.Pattern)
	for _, name := range []string{"alice", "ALICE", "Alice"} {
		if !re.MatchString(name) {
			t.Errorf("expected %q to match", name)
		}
	}
	for _, name := range []string{"alice2", "malice", ""} {
		if re.MatchString(name) {
			t.Errorf("expected %q not to match", name)
		}
	}
}

func TestUsernamePattern_QuotesMetacharacters(t *testing.T) {
	re := regexp.MustCompile("(?i)" + usernamePattern(".*").Pattern)
	if re.MatchString("alice") {
		t.Fatal("pattern metacharacters in the username must be matched literally")
	}
	if !re.MatchString(".*") {
		t.Fatal("expected the literal username to match")
	}
}

func TestUserDocMapping(t *testing.T) {
	oid := primitive.NewObjectID()
	doc := toUserDoc(&domain.User{
		Name: "Alice", Email: "a@example.com", Username: " Alice ",
		HashedPassword: "hash", Role: domain.RoleDeveloper,
	})
	if doc.Username != "alice" {
		t.Fatalf("expected stored username to be canonical, got %q", doc.Username)
	}

	doc.ID = oid
	u := toDomainUser(doc)
	if u.ID != oid.Hex() || u.Role != domain.RoleDeveloper || u.HashedPassword != "hash" {
		t.Fatalf("unexpected mapping: %+v", u)
	}

	if toDomainUser(userDoc{}).ID != "" {
		t.Fatal("zero ObjectID must map to an empty ID")
	}
}
