package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oauthcore/auth-server/internal/core/domain"
)

const (
	clientsCollection = "clientkeys"
	usersCollection   = "users"
	tokensCollection  = "authtokens"
)

// CredentialStore implements ports.CredentialStore on MongoDB.
type CredentialStore struct {
	clients *mongo.Collection
	users   *mongo.Collection
	tokens  *mongo.Collection
}

func NewCredentialStore(db *mongo.Database) *CredentialStore {
	return &CredentialStore{
		clients: db.Collection(clientsCollection),
		users:   db.Collection(usersCollection),
		tokens:  db.Collection(tokensCollection),
	}
}

type clientDoc struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	Client string             `bson:"client"`
	Secret string             `bson:"secret"`
}

type userDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Name           string             `bson:"name"`
	Email          string             `bson:"email"`
	Username       string             `bson:"username"`
	HashedPassword string             `bson:"hashed_password"`
	Role           string             `bson:"role"`
	CreatedAt      int64              `bson:"created_at,omitempty"`
	UpdatedAt      int64              `bson:"updated_at"`
}

type tokenDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Token     string             `bson:"token"`
	CreatedAt int64              `bson:"created_at"`
}

// FindClient matches client id and secret exactly.
func (s *CredentialStore) FindClient(ctx context.Context, clientID, clientSecret string) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc clientDoc
	err := s.clients.FindOne(ctx, bson.M{"client": clientID, "secret": clientSecret}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find client: %w", err)
	}
	return &domain.Client{ClientID: doc.Client, ClientSecret: doc.Secret}, nil
}

// FindUserByUsernameCI matches the whole username case-insensitively.
// The input is quoted so it is never interpreted as a pattern.
func (s *CredentialStore) FindUserByUsernameCI(ctx context.Context, username string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := s.users.FindOne(ctx, bson.M{"username": usernamePattern(username)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return toDomainUser(doc), nil
}

func usernamePattern(username string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(username) + "$", Options: "i"}
}

func (s *CredentialStore) FindTokenByValue(ctx context.Context, token string) (*domain.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc tokenDoc
	if err := s.tokens.FindOne(ctx, bson.M{"token": token}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find token: %w", err)
	}
	return &domain.Token{Username: doc.Username, Value: doc.Token}, nil
}

func (s *CredentialStore) SaveToken(ctx context.Context, token *domain.Token) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := s.tokens.InsertOne(ctx, tokenDoc{
		Username:  token.Username,
		Token:     token.Value,
		CreatedAt: time.Now().UTC().Unix(),
	})
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// SaveUser validates user and inserts it when it has no ID, or replaces the
// stored document otherwise. A username collision yields domain.ErrUserExists.
func (s *CredentialStore) SaveUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	isNew := user.ID == ""
	if violations := domain.ValidateUser(user, isNew); len(violations) > 0 {
		return nil, violations
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toUserDoc(user)
	now := time.Now().UTC().Unix()
	doc.UpdatedAt = now

	if isNew {
		doc.CreatedAt = now
		res, err := s.users.InsertOne(ctx, doc)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, domain.ErrUserExists
			}
			return nil, fmt.Errorf("insert user: %w", err)
		}
		if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
			doc.ID = oid
		}
		return toDomainUser(doc), nil
	}

	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return nil, fmt.Errorf("update user: invalid id %q: %w", user.ID, err)
	}
	doc.ID = oid

	update := bson.M{"$set": bson.M{
		"name":            doc.Name,
		"email":           doc.Email,
		"username":        doc.Username,
		"hashed_password": doc.HashedPassword,
		"role":            doc.Role,
		"updated_at":      doc.UpdatedAt,
	}}
	res, err := s.users.UpdateByID(ctx, oid, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return toDomainUser(doc), nil
}

// CreateClient provisions a client. It is used by operator tooling only; the
// authentication core never writes clients.
func (s *CredentialStore) CreateClient(ctx context.Context, client domain.Client) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := s.clients.InsertOne(ctx, clientDoc{Client: client.ClientID, Secret: client.ClientSecret})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("client %q already exists", client.ClientID)
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// EnsureIndexes creates the indexes the lookups above rely on.
func (s *CredentialStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("users index: %w", err)
	}
	if _, err := s.tokens.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "token", Value: 1}},
	}); err != nil {
		return fmt.Errorf("tokens index: %w", err)
	}
	if _, err := s.clients.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "client", Value: 1}, {Key: "secret", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("clients index: %w", err)
	}
	return nil
}

func toUserDoc(u *domain.User) userDoc {
	return userDoc{
		Name:           u.Name,
		Email:          u.Email,
		Username:       domain.CanonicalUsername(u.Username),
		HashedPassword: u.HashedPassword,
		Role:           string(u.Role),
	}
}

func toDomainUser(doc userDoc) *domain.User {
	u := &domain.User{
		Name:           doc.Name,
		Email:          doc.Email,
		Username:       doc.Username,
		HashedPassword: doc.HashedPassword,
		Role:           domain.Role(doc.Role),
	}
	if !doc.ID.IsZero() {
		u.ID = doc.ID.Hex()
	}
	return u
}
