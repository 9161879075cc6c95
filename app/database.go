package app

import (
	"context"
	"crypto/rand"
	"errors"
	"time"

	"github.com/dan13ram/fundraiser-escrow/models"
	log "github.com/sirupsen/logrus"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	lock "github.com/square/mongo-lock"
)

const CollectionLocks = "locks"

type Database interface {
	Connect() error
	SetupLocker() error
	SetupIndexes() error
	Disconnect() error

	InsertOne(ctx context.Context, collection string, data interface{}) (primitive.ObjectID, error)
	FindOne(ctx context.Context, collection string, filter interface{}, result interface{}) error
	FindMany(ctx context.Context, collection string, filter interface{}, result interface{}) error
	AggregateMany(ctx context.Context, collection string, pipeline interface{}, result interface{}) error
	UpdateOne(ctx context.Context, collection string, filter interface{}, update interface{}) (int64, error)
	UpsertOne(ctx context.Context, collection string, filter interface{}, update interface{}) (primitive.ObjectID, error)
	DeleteOne(ctx context.Context, collection string, filter interface{}) (int64, error)
	DeleteMany(ctx context.Context, collection string, filter interface{}) (int64, error)

	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	XLock(resourceID string) (string, error)
	Unlock(lockID string) error
}

// mongoDatabase is a wrapper around the mongo database
type mongoDatabase struct {
	db       *mongo.Database
	uri      string
	database string
	timeout  time.Duration
	locker   *lock.Client
}

var (
	DB Database
)

// Connect connects to the database
func (d *mongoDatabase) Connect() error {
	log.Debug("[DB] Connecting to database")
	wcMajority := writeconcern.Majority()
	wcMajority.WTimeout = d.timeout

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(d.uri).SetWriteConcern(wcMajority))
	if err != nil {
		return err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return err
	}
	d.db = client.Database(d.database)

	log.Info("[DB] Connected to mongo database: ", d.database)
	return nil
}

// SetupLocker sets up the locker
func (d *mongoDatabase) SetupLocker() error {
	log.Debug("[DB] Setting up locker")

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	locker := lock.NewClient(d.db.Collection(CollectionLocks))
	if err := locker.CreateIndexes(ctx); err != nil {
		return err
	}
	d.locker = locker

	log.Info("[DB] Locker setup")
	return nil
}

func randomString(n int) string {
	const alphanum = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	var bytes = make([]byte, n)
	rand.Read(bytes)
	for i, b := range bytes {
		bytes[i] = alphanum[b%byte(len(alphanum))]
	}
	return string(bytes)
}

// XLock locks a resource for exclusive access
func (d *mongoDatabase) XLock(resourceID string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	lockID := randomString(32)
	err := d.locker.XLock(ctx, resourceID, lockID, lock.LockDetails{
		Owner: Config.Program.InstanceID,
		TTL:   3600,
	})
	return lockID, err
}

// Unlock unlocks a resource
func (d *mongoDatabase) Unlock(lockID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	_, err := d.locker.Unlock(ctx, lockID)
	return err
}

type index struct {
	collection string
	keys       bson.D
	options    *options.IndexOptions
}

var indexes = []index{
	{models.CollectionFundraisers, bson.D{{Key: "address", Value: 1}}, options.Index().SetUnique(true)},
	{models.CollectionFundraisers, bson.D{{Key: "maker", Value: 1}}, options.Index().SetUnique(true)},
	{models.CollectionContributors, bson.D{{Key: "address", Value: 1}}, options.Index().SetUnique(true)},
	{models.CollectionContributors, bson.D{{Key: "fundraiser", Value: 1}}, options.Index()},
	{models.CollectionMints, bson.D{{Key: "address", Value: 1}}, options.Index().SetUnique(true)},
	{models.CollectionTokenAccounts, bson.D{{Key: "address", Value: 1}}, options.Index().SetUnique(true)},
	{models.CollectionTokenAccounts, bson.D{{Key: "owner", Value: 1}, {Key: "mint", Value: 1}}, options.Index()},
	{models.CollectionTransfers, bson.D{{Key: "from", Value: 1}, {Key: "created_at", Value: -1}}, options.Index()},
	{models.CollectionTransfers, bson.D{{Key: "to", Value: 1}, {Key: "created_at", Value: -1}}, options.Index()},
	{models.CollectionSignatures, bson.D{{Key: "signature", Value: 1}}, options.Index().SetUnique(true)},
	{models.CollectionHealthChecks, bson.D{{Key: "instance_id", Value: 1}, {Key: "hostname", Value: 1}}, options.Index().SetUnique(true)},
}

// SetupIndexes creates the unique and lookup indexes of every collection
func (d *mongoDatabase) SetupIndexes() error {
	log.Debug("[DB] Setting up indexes")

	for _, idx := range indexes {
		log.Debug("[DB] Setting up index for ", idx.collection)
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		_, err := d.db.Collection(idx.collection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    idx.keys,
			Options: idx.options,
		})
		cancel()
		if err != nil {
			return err
		}
	}

	// used signatures only need to outlive the accepted timestamp window
	ttl := int32(2 * Config.API.SignatureTTLMillis / 1000)
	if ttl <= 0 {
		ttl = 600
	}
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	_, err := d.db.Collection(models.CollectionSignatures).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(ttl),
	})
	if err != nil {
		return err
	}

	log.Info("[DB] Indexes setup")
	return nil
}

// Disconnect disconnects from the database
func (d *mongoDatabase) Disconnect() error {
	log.Debug("[DB] Disconnecting from database")
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	err := d.db.Client().Disconnect(ctx)
	log.Info("[DB] Disconnected from database")
	return err
}

// WithTransaction runs fn inside a mongo transaction, the ctx passed to fn
// carries the session and must be used for every call that belongs to it
func (d *mongoDatabase) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := d.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(context.Background())

	opts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	}, opts)
	return err
}

// method for insert single value in a collection
func (d *mongoDatabase) InsertOne(ctx context.Context, collection string, data interface{}) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	result, err := d.db.Collection(collection).InsertOne(ctx, data)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to cast inserted id")
	}
	return insertedID, nil
}

// method for find single value in a collection
func (d *mongoDatabase) FindOne(ctx context.Context, collection string, filter interface{}, result interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.db.Collection(collection).FindOne(ctx, filter).Decode(result)
}

// method for find multiple values in a collection
func (d *mongoDatabase) FindMany(ctx context.Context, collection string, filter interface{}, result interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	cursor, err := d.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return err
	}
	return cursor.All(ctx, result)
}

// method for aggregate multiple values in a collection
func (d *mongoDatabase) AggregateMany(ctx context.Context, collection string, pipeline interface{}, result interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	cursor, err := d.db.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	return cursor.All(ctx, result)
}

// method for update single value in a collection, returns the matched count
func (d *mongoDatabase) UpdateOne(ctx context.Context, collection string, filter interface{}, update interface{}) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	result, err := d.db.Collection(collection).UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.MatchedCount, nil
}

// method for upsert single value in a collection
func (d *mongoDatabase) UpsertOne(ctx context.Context, collection string, filter interface{}, update interface{}) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	opts := options.Update().SetUpsert(true)
	result, err := d.db.Collection(collection).UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if result.UpsertedID == nil {
		return primitive.NilObjectID, nil
	}
	upsertedID, ok := result.UpsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to cast upserted id")
	}
	return upsertedID, nil
}

// method for delete single value in a collection
func (d *mongoDatabase) DeleteOne(ctx context.Context, collection string, filter interface{}) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	result, err := d.db.Collection(collection).DeleteOne(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// method for delete multiple values in a collection
func (d *mongoDatabase) DeleteMany(ctx context.Context, collection string, filter interface{}) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	result, err := d.db.Collection(collection).DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// InitDB creates a new database wrapper
func InitDB() {
	DB = &mongoDatabase{
		uri:      Config.MongoDB.URI,
		database: Config.MongoDB.Database,
		timeout:  time.Duration(Config.MongoDB.TimeoutMillis) * time.Millisecond,
	}

	err := DB.Connect()
	if err != nil {
		log.Fatal("[DB] Error connecting to database: ", err)
	}
	err = DB.SetupIndexes()
	if err != nil {
		log.Fatal("[DB] Error setting up indexes: ", err)
	}
	err = DB.SetupLocker()
	if err != nil {
		log.Fatal("[DB] Error setting up locker: ", err)
	}

	log.Info("[DB] Database initialized")
}
