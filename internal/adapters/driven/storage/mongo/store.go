package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/custodia-labs/juricasync/internal/core/domain"
	"github.com/custodia-labs/juricasync/internal/core/ports/driven"
)

// Collection names.
const (
	RawCollection       = "rawJurica"
	DecisionCollection  = "decisions"
	SyncStateCollection = "syncStates"
)

// connectTimeout bounds the initial ping.
const connectTimeout = 10 * time.Second

// Store gives access to the document stores of one MongoDB database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore connects to uri and opens database. It fails when the server
// cannot be reached.
func NewStore(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	s := &Store{client: client, db: client.Database(database)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// RawDecisionStore returns a RawDecisionStore interface backed by this store.
func (s *Store) RawDecisionStore() driven.RawDecisionStore {
	return &rawDecisionStore{coll: s.db.Collection(RawCollection)}
}

// DecisionStore returns a DecisionStore interface backed by this store.
func (s *Store) DecisionStore() driven.DecisionStore {
	return &decisionStore{coll: s.db.Collection(DecisionCollection)}
}

// SyncStateStore returns a SyncStateStore interface backed by this store.
func (s *Store) SyncStateStore() driven.SyncStateStore {
	return &syncStateStore{coll: s.db.Collection(SyncStateCollection)}
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(DecisionCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sourceId", Value: 1}, {Key: "sourceName", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "labelStatus", Value: 1}, {Key: "sourceName", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("creating decision indexes: %w", err)
	}
	return nil
}

// ==================== Raw Decision Store ====================

// rawDecisionStore implements driven.RawDecisionStore.
type rawDecisionStore struct {
	coll *mongo.Collection
}

var _ driven.RawDecisionStore = (*rawDecisionStore)(nil)

// Get retrieves a mirrored decision by source identifier.
func (s *rawDecisionStore) Get(ctx context.Context, id int64) (domain.Decision, error) {
	var document bson.M
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&document)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding raw decision: %w", err)
	}
	return fromDocument(document), nil
}

// Insert mirrors a decision not mirrored yet.
func (s *rawDecisionStore) Insert(ctx context.Context, d domain.Decision) error {
	id := d.ID()
	if id == 0 {
		return fmt.Errorf("%w: decision without identifier", domain.ErrInvalidInput)
	}
	_, err := s.coll.InsertOne(ctx, toDocument(d, id))
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("raw decision %d: %w", id, domain.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("inserting raw decision: %w", err)
	}
	return nil
}

// Replace overwrites a mirrored decision.
func (s *rawDecisionStore) Replace(ctx context.Context, d domain.Decision) error {
	id := d.ID()
	result, err := s.coll.ReplaceOne(ctx, bson.M{"_id": id}, toDocument(d, id))
	if err != nil {
		return fmt.Errorf("replacing raw decision: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("raw decision %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a mirrored decision.
func (s *rawDecisionStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("deleting raw decision: %w", err)
	}
	return nil
}

// ==================== Decision Store ====================

// decisionStore implements driven.DecisionStore.
type decisionStore struct {
	coll *mongo.Collection
}

var _ driven.DecisionStore = (*decisionStore)(nil)

// FindBySource retrieves the normalized decision of a source decision.
func (s *decisionStore) FindBySource(ctx context.Context, sourceID int64, sourceName string) (*domain.NormalizedDecision, error) {
	var n domain.NormalizedDecision
	err := s.coll.FindOne(ctx, bson.M{"sourceId": sourceID, "sourceName": sourceName}).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding normalized decision: %w", err)
	}
	return &n, nil
}

// Insert stores a new normalized decision, assigning it an ObjectId.
func (s *decisionStore) Insert(ctx context.Context, n *domain.NormalizedDecision) error {
	stored := *n
	if stored.ID == "" {
		stored.ID = primitive.NewObjectID().Hex()
	}
	document, err := normalizedDocument(&stored)
	if err != nil {
		return err
	}

	_, err = s.coll.InsertOne(ctx, document)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("decision %s:%d: %w", stored.SourceName, stored.SourceID, domain.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("inserting normalized decision: %w", err)
	}
	n.ID = stored.ID
	return nil
}

// Replace overwrites a normalized decision.
func (s *decisionStore) Replace(ctx context.Context, n *domain.NormalizedDecision) error {
	document, err := normalizedDocument(n)
	if err != nil {
		return err
	}

	result, err := s.coll.ReplaceOne(ctx, bson.M{"_id": objectID(n.ID)}, document)
	if err != nil {
		return fmt.Errorf("replacing normalized decision: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("decision %s: %w", n.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a normalized decision.
func (s *decisionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": objectID(id)}); err != nil {
		return fmt.Errorf("deleting normalized decision: %w", err)
	}
	return nil
}

// ListByLabelStatus returns the decisions of a source in a labelling state,
// ordered by source identifier.
func (s *decisionStore) ListByLabelStatus(
	ctx context.Context,
	status domain.LabelStatus,
	sourceName string,
) ([]domain.NormalizedDecision, error) {
	cursor, err := s.coll.Find(ctx,
		bson.M{"labelStatus": status, "sourceName": sourceName},
		options.Find().SetSort(bson.D{{Key: "sourceId", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("finding normalized decisions: %w", err)
	}

	var decisions []domain.NormalizedDecision
	if err := cursor.All(ctx, &decisions); err != nil {
		return nil, fmt.Errorf("decoding normalized decisions: %w", err)
	}
	return decisions, nil
}

// ==================== Sync State Store ====================

// syncStateStore implements driven.SyncStateStore.
type syncStateStore struct {
	coll *mongo.Collection
}

var _ driven.SyncStateStore = (*syncStateStore)(nil)

type syncStateDocument struct {
	SourceName string    `bson:"_id"`
	LastSync   time.Time `bson:"lastSync"`
}

// Save stores or updates sync state.
func (s *syncStateStore) Save(ctx context.Context, state domain.SyncState) error {
	document := syncStateDocument{SourceName: state.SourceName, LastSync: state.LastSync}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": state.SourceName}, document, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("saving sync state: %w", err)
	}
	return nil
}

// Get retrieves sync state for a source database.
func (s *syncStateStore) Get(ctx context.Context, sourceName string) (*domain.SyncState, error) {
	var document syncStateDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": sourceName}).Decode(&document)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding sync state: %w", err)
	}
	return &domain.SyncState{SourceName: document.SourceName, LastSync: document.LastSync}, nil
}

// ==================== Helpers ====================

// toDocument renders a decision as a BSON document with _id set.
func toDocument(d domain.Decision, id int64) bson.M {
	document := make(bson.M, len(d)+1)
	for k, v := range d {
		document[string(k)] = v
	}
	document[string(domain.FieldMirrorID)] = id
	return document
}

// fromDocument reads a BSON document back into a decision. BSON dates are
// read as time.Time.
func fromDocument(document bson.M) domain.Decision {
	d := make(domain.Decision, len(document))
	for k, v := range document {
		if dt, ok := v.(primitive.DateTime); ok {
			v = dt.Time()
		}
		d[domain.Field(k)] = v
	}
	return d
}

// objectID returns the ObjectId spelled by id, or id itself when it is not
// a hex ObjectId.
func objectID(id string) any {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

// normalizedDocument renders a normalized decision as a BSON document with
// its metadata inline and _id stored as an ObjectId. String identifiers are
// read back as hex by the driver.
func normalizedDocument(n *domain.NormalizedDecision) (bson.D, error) {
	raw, err := bson.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("marshalling normalized decision: %w", err)
	}

	var document bson.D
	if err := bson.Unmarshal(raw, &document); err != nil {
		return nil, fmt.Errorf("unmarshalling normalized decision: %w", err)
	}
	for i, e := range document {
		if e.Key == "_id" {
			document[i].Value = objectID(n.ID)
		}
	}
	return document, nil
}
