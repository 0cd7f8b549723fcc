package repository

import (
	"context"
	"fmt"
	"time"

	"contact_keeper/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UsersCollection    = "users"
	ContactsCollection = "contacts"
)

type userDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Email    string             `bson:"email"`
	Password string             `bson:"password"`
	Date     time.Time          `bson:"date"`
}

func (d userDocument) toModel() *model.User {
	return &model.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		CreatedAt:    d.Date.UTC(),
	}
}

type contactDocument struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	User  primitive.ObjectID `bson:"user"`
	Name  string             `bson:"name"`
	Email string             `bson:"email,omitempty"`
	Phone string             `bson:"phone,omitempty"`
	Type  string             `bson:"type"`
	Date  time.Time          `bson:"date"`
}

func (d contactDocument) toModel() model.Contact {
	return model.Contact{
		ID:        d.ID.Hex(),
		UserID:    d.User.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Type:      d.Type,
		CreatedAt: d.Date.UTC(),
	}
}

// EnsureMongoIndexes creates the unique email index and the per-user listing index.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}
	_, err = db.Collection(ContactsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "date", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create contacts index: %w", err)
	}
	return nil
}

type mongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository creates a MongoDB-backed UserRepository
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{coll: db.Collection(UsersCollection)}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) error {
	doc := userDocument{
		ID:       primitive.NewObjectID(),
		Name:     user.Name,
		Email:    user.Email,
		Password: user.PasswordHash,
		Date:     user.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = doc.ID.Hex()
	return nil
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil // malformed ids never match
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return doc.toModel(), nil
}

type mongoContactRepository struct {
	coll *mongo.Collection
}

// NewMongoContactRepository creates a MongoDB-backed ContactRepository
func NewMongoContactRepository(db *mongo.Database) ContactRepository {
	return &mongoContactRepository{coll: db.Collection(ContactsCollection)}
}

func (r *mongoContactRepository) Create(ctx context.Context, c *model.Contact) error {
	owner, err := primitive.ObjectIDFromHex(c.UserID)
	if err != nil {
		return fmt.Errorf("invalid owner id %q: %w", c.UserID, err)
	}
	doc := contactDocument{
		ID:    primitive.NewObjectID(),
		User:  owner,
		Name:  c.Name,
		Email: c.Email,
		Phone: c.Phone,
		Type:  c.Type,
		Date:  c.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	c.ID = doc.ID.Hex()
	return nil
}

func (r *mongoContactRepository) FindByID(ctx context.Context, id string) (*model.Contact, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var doc contactDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find contact by ID: %w", err)
	}
	c := doc.toModel()
	return &c, nil
}

func (r *mongoContactRepository) FindByUser(ctx context.Context, userID string) ([]model.Contact, error) {
	contacts := []model.Contact{}
	owner, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return contacts, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"user": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts by user: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc contactDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode contact: %w", err)
		}
		contacts = append(contacts, doc.toModel())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}
	return contacts, nil
}

func (r *mongoContactRepository) Update(ctx context.Context, c *model.Contact) error {
	filter, ok := ownedFilter(c.ID, c.UserID)
	if !ok {
		return ErrNotFound
	}
	update := bson.M{"$set": bson.M{
		"name":  c.Name,
		"email": c.Email,
		"phone": c.Phone,
		"type":  c.Type,
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoContactRepository) Delete(ctx context.Context, id, userID string) error {
	filter, ok := ownedFilter(id, userID)
	if !ok {
		return ErrNotFound
	}
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func ownedFilter(id, userID string) (bson.M, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	owner, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": oid, "user": owner}, true
}
