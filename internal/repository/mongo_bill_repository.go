package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/aryan0dhankhar/wattbill/internal/domain"
)

const billsCollection = "bills"

type billDocument struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	CustomerName string        `bson:"customerName"`
	Units        float64       `bson:"units"`
	Rate         float64       `bson:"rate"`
	Amount       float64       `bson:"amount"`
	DueDate      string        `bson:"dueDate"`
	Status       string        `bson:"status"`
	CreatedAt    time.Time     `bson:"createdAt,omitempty"`
}

func (d *billDocument) toDomain() *domain.Bill {
	bill := &domain.Bill{
		ID:           d.ID.Hex(),
		CustomerName: d.CustomerName,
		Units:        d.Units,
		Rate:         d.Rate,
		Amount:       d.Amount,
		DueDate:      d.DueDate,
		Status:       d.Status,
	}
	if !d.CreatedAt.IsZero() {
		bill.CreatedAt = d.CreatedAt.UTC()
	}
	if bill.Status == "" {
		bill.Status = domain.StatusUnpaid
	}
	return bill
}

// MongoBillRepository implements domain.BillRepository on a MongoDB collection
type MongoBillRepository struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

func NewMongoBillRepository(db *mongo.Database, logger *slog.Logger) *MongoBillRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &MongoBillRepository{coll: db.Collection(billsCollection), logger: logger}
}

func (r *MongoBillRepository) List(ctx context.Context) ([]*domain.Bill, error) {
	cursor, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	var docs []billDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode bills: %w", err)
	}

	bills := make([]*domain.Bill, 0, len(docs))
	for i := range docs {
		bills = append(bills, docs[i].toDomain())
	}
	return bills, nil
}

func (r *MongoBillRepository) Create(ctx context.Context, bill *domain.Bill) error {
	doc := billDocument{
		ID:           bson.NewObjectID(),
		CustomerName: bill.CustomerName,
		Units:        bill.Units,
		Rate:         bill.Rate,
		Amount:       bill.Amount,
		DueDate:      bill.DueDate,
		Status:       bill.Status,
		CreatedAt:    bill.CreatedAt,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create bill: %w", err)
	}

	bill.ID = doc.ID.Hex()
	return nil
}

// Update applies the patch with $set and returns the document after the update
func (r *MongoBillRepository) Update(ctx context.Context, id string, patch domain.BillPatch) (*domain.Bill, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	filter := bson.D{{Key: "_id", Value: oid}}

	set := bson.D{}
	if patch.CustomerName != nil {
		set = append(set, bson.E{Key: "customerName", Value: *patch.CustomerName})
	}
	if patch.Units != nil {
		set = append(set, bson.E{Key: "units", Value: *patch.Units})
	}
	if patch.Rate != nil {
		set = append(set, bson.E{Key: "rate", Value: *patch.Rate})
	}
	if patch.Amount != nil {
		set = append(set, bson.E{Key: "amount", Value: *patch.Amount})
	}
	if patch.DueDate != nil {
		set = append(set, bson.E{Key: "dueDate", Value: *patch.DueDate})
	}
	if patch.Status != nil {
		set = append(set, bson.E{Key: "status", Value: *patch.Status})
	}

	var doc billDocument
	if len(set) == 0 {
		err = r.coll.FindOne(ctx, filter).Decode(&doc)
	} else {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err = r.coll.FindOneAndUpdate(ctx, filter, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("failed to update bill",
			slog.String("bill_id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to update bill: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoBillRepository) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	if _, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}}); err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	return nil
}

// ValidID accepts 24-character hex ObjectIDs
func (r *MongoBillRepository) ValidID(id string) bool {
	_, err := bson.ObjectIDFromHex(id)
	return err == nil
}
